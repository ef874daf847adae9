// README: Conversation service; runs the two-phase classification pipeline per caption.
package convo

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"roam/internal/modules/format"
	"roam/internal/modules/history"
	"roam/internal/modules/intent"
	"roam/internal/modules/search"
	"roam/internal/places"
	"roam/internal/tagger"
	"roam/internal/types"
)

type Service struct {
	tagger tagger.Tagger
	search *search.Service
	near   types.Point
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

// NewService wires the caption pipeline. near is the default reference
// location for sessions that do not supply their own.
func NewService(tg tagger.Tagger, searchSvc *search.Service, near types.Point, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tagger:   tg,
		search:   searchSvc,
		near:     near,
		logger:   logger,
		sessions: make(map[types.ID]*Session),
	}
}

// Session returns the session for id, creating it on first use. An empty id
// starts a fresh conversation.
func (s *Service) Session(id types.ID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = types.ID(uuid.NewString())
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = NewSession(id, s.near)
		s.sessions[id] = sess
	}
	return sess
}

// HandleCaption runs one turn: provisional classification, parameter
// extraction, candidate resolution, reclassification with the resolved data,
// and the append-or-replace into the session history. Detail enrichment
// continues asynchronously; its completions reconcile the history whenever
// they land, however late. selectedPlaceID is non-empty when the user
// explicitly chose a prior result.
//
// The returned intent is the turn as appended; enrichable fields may still
// fill in afterwards (subscribe to the history for the change signal).
func (s *Service) HandleCaption(ctx context.Context, sess *Session, caption string, selectedPlaceID types.ID) (intent.Intent, error) {
	prior := s.priorContext(sess)

	var selected *places.Candidate
	if selectedPlaceID != "" {
		selected = s.findCandidate(sess, selectedPlaceID)
	}
	if selected == nil {
		selected = prior.Selected
	}

	// Phase one: caption only. Entity evidence is not available yet.
	firstKind := intent.Classify(caption, intent.Context{
		Prior:           prior.Prior,
		Selected:        selected,
		SelectedDetails: prior.SelectedDetails,
		ResultTitles:    prior.ResultTitles,
	})

	tags, err := s.tagger.Tag(ctx, caption)
	if err != nil {
		// Tagging failure means no derived parameters, never a failed turn.
		s.logger.Warn("tagger failed, extracting from raw caption", "error", err)
		tags = nil
	}
	params := intent.Extract(caption, tags)

	provisional := intent.New(caption, firstKind).WithParams(params)
	if selected != nil {
		provisional = provisional.WithSelected(*selected)
	}
	sess.History.Append(provisional)

	candidates, err := s.search.ResolveCandidates(ctx, provisional, sess.Near)
	if err != nil {
		// The turn stays as appended; the user sees the prior state persist.
		s.logger.Warn("candidate resolution failed", "session", sess.ID, "error", err)
		s.composeResults(sess, provisional)
		return provisional, nil
	}

	// Phase two: entity detection and candidate presence can change the kind.
	effective := selected
	if effective == nil {
		effective = matchNamedCandidate(caption, tags, candidates)
	}
	secondKind := intent.Classify(caption, intent.Context{
		Prior:           prior.Prior,
		Selected:        effective,
		SelectedDetails: prior.SelectedDetails,
		NamedEntity:     tags.HasPlaceName(),
		ResultTitles:    prior.ResultTitles,
	})

	final := provisional.WithKind(secondKind).WithCandidates(candidates)
	if effective != nil {
		final = final.WithSelected(*effective)
	}
	if secondKind.IsDetails() && prior.SelectedDetails != nil {
		final = final.WithSelectedDetails(*prior.SelectedDetails)
	}
	if !sess.History.PatchIfFresherTurn(final) {
		final = provisional
	}
	s.composeResults(sess, final)

	// Detail fetches outlive the request and even the turn: a newer caption
	// never cancels them, and their completions still reconcile the history.
	fetchCtx := context.WithoutCancel(ctx)
	go s.enrich(fetchCtx, sess, final, candidates)

	return final, nil
}

// Suggest resolves a partial caption into place suggestions near the
// session's reference location.
func (s *Service) Suggest(ctx context.Context, sess *Session, text string) ([]places.Candidate, error) {
	return s.search.Autocomplete(ctx, text, sess.Near)
}

// Results composes the presentation descriptors for the current turn.
func (s *Service) Results(sess *Session) ([]format.ChatResult, error) {
	cur, err := sess.History.Current()
	if err != nil {
		return nil, err
	}
	return format.Compose(cur)
}

// enrich is the asynchronous continuation of a turn: fetch details for the
// resolved candidates, patch the turn with the detail list, and reconcile
// every historical turn the completions can strictly enrich.
func (s *Service) enrich(ctx context.Context, sess *Session, turn intent.Intent, candidates []places.Candidate) {
	details := s.search.FetchDetails(ctx, candidates, sess.Near)
	if len(details) == 0 {
		return
	}

	enriched := turn.WithCandidates(candidates).WithDetailsList(details)
	if turn.SelectedCandidate != nil {
		for _, d := range details {
			if d.Candidate.SamePlace(*turn.SelectedCandidate) {
				enriched = enriched.WithSelectedDetails(d)
				break
			}
		}
	}
	sess.History.PatchIfFresherTurn(enriched)

	for _, d := range details {
		if err := sess.History.ReconcileAcrossHistory(d.Candidate, d); err != nil {
			s.logger.Warn("reconciliation failed", "session", sess.ID,
				"place_id", d.Candidate.PlaceID, "error", err)
		}
	}

	if cur, err := sess.History.Current(); err == nil {
		s.composeResults(sess, cur)
	}
}

// composeResults regenerates the current turn's descriptors and remembers
// their titles for share-request matching. A field-absent drill-down keeps
// the previous titles.
func (s *Service) composeResults(sess *Session, it intent.Intent) {
	results, err := format.Compose(it)
	if err != nil {
		s.logger.Debug("no result composed", "session", sess.ID, "kind", it.Kind, "error", err)
		return
	}
	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Title)
	}
	sess.RememberTitles(titles)
}

// priorContext assembles the classification context carried over from the
// session's latest turn.
func (s *Service) priorContext(sess *Session) intent.Context {
	cctx := intent.Context{ResultTitles: sess.Titles()}
	cur, err := sess.History.Current()
	if err != nil {
		if err != history.ErrNoIntent {
			s.logger.Warn("reading current turn failed", "session", sess.ID, "error", err)
		}
		return cctx
	}
	cctx.Prior = cur.Kind
	cctx.Selected = cur.SelectedCandidate
	cctx.SelectedDetails = cur.SelectedDetails
	return cctx
}

// findCandidate resolves an explicit selection against the candidates the
// conversation has already seen, newest turn first.
func (s *Service) findCandidate(sess *Session, placeID types.ID) *places.Candidate {
	turns := sess.History.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		for _, c := range turns[i].Candidates {
			if c.PlaceID == placeID {
				return &c
			}
		}
		if sel := turns[i].SelectedCandidate; sel != nil && sel.PlaceID == placeID {
			return sel
		}
	}
	return nil
}

// matchNamedCandidate pairs a tagged place name in the caption with the
// resolved candidate carrying that name, which is what promotes a query kind
// to its place-scoped counterpart on the second classification pass.
func matchNamedCandidate(caption string, tags tagger.Tags, candidates []places.Candidate) *places.Candidate {
	if !tags.HasPlaceName() {
		return nil
	}
	lower := strings.ToLower(caption)
	for i, c := range candidates {
		name := strings.ToLower(c.Name)
		if name != "" && strings.Contains(lower, name) {
			return &candidates[i]
		}
	}
	// The caption names a place but search spelled it differently; the top
	// candidate is the search service's best match for that name.
	if len(candidates) > 0 {
		return &candidates[0]
	}
	return nil
}
