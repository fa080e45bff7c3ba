package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dislogroup/salesflow/internal/conversation"
	"github.com/dislogroup/salesflow/internal/providers/llm"
	mongorepo "github.com/dislogroup/salesflow/internal/repositories/mongo"
	"github.com/dislogroup/salesflow/internal/utils"
)

// GroundingSummarizer is the read-only snapshot every domain exposes for the
// model's context.
type GroundingSummarizer interface {
	SummarizeForGrounding(ctx context.Context) (string, error)
}

// GroundingSources lists the domains in their fixed assembly order.
type GroundingSources struct {
	Products   GroundingSummarizer
	Clients    GroundingSummarizer
	Orders     GroundingSummarizer
	Users      GroundingSummarizer
	Promotions GroundingSummarizer
	Routes     GroundingSummarizer
	Stocks     GroundingSummarizer
	Visits     GroundingSummarizer
}

const companyInfo = `Dislogroup est un distributeur marocain de produits de grande consommation.
L'entreprise livre les epiceries et superettes via ses routes de vente,
avec des equipes de prevendeurs et de vendeurs directs en camion.`

type AssistantService interface {
	// Ask answers a free-form question grounded on current business data
	// and the caller's conversation history.
	Ask(ctx context.Context, identity, query string) (string, error)
	// ReplaceRelativeDates rewrites demain / aujourd'hui / hier into
	// absolute yyyy-MM-dd dates.
	ReplaceRelativeDates(query string) string
	History(identity string) []conversation.Turn
}

type assistantService struct {
	llm     llm.Provider
	store   *conversation.Store
	sources GroundingSources
	audit   mongorepo.InteractionRepo
	log     *logrus.Logger
	now     func() time.Time
}

func NewAssistantService(provider llm.Provider, store *conversation.Store, sources GroundingSources, audit mongorepo.InteractionRepo, log *logrus.Logger) AssistantService {
	return &assistantService{
		llm:     provider,
		store:   store,
		sources: sources,
		audit:   audit,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var (
	reTomorrow  = regexp.MustCompile(`(?i)demain`)
	reToday     = regexp.MustCompile(`(?i)aujourd['’]hui`)
	reYesterday = regexp.MustCompile(`(?i)hier`)
)

func (s *assistantService) ReplaceRelativeDates(query string) string {
	today := s.now()
	query = reTomorrow.ReplaceAllString(query, today.AddDate(0, 0, 1).Format("2006-01-02"))
	query = reToday.ReplaceAllString(query, today.Format("2006-01-02"))
	query = reYesterday.ReplaceAllString(query, today.AddDate(0, 0, -1).Format("2006-01-02"))
	return query
}

func (s *assistantService) History(identity string) []conversation.Turn {
	return s.store.Get(identity)
}

func (s *assistantService) Ask(ctx context.Context, identity, query string) (string, error) {
	const op = "AssistantService.Ask"
	start := s.now()

	if strings.TrimSpace(query) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "le champ 'query' est obligatoire", nil)
	}
	if identity == "" {
		identity = conversation.AnonymousIdentity
	}

	query = s.ReplaceRelativeDates(query)
	s.store.Append(identity, conversation.Turn{Speaker: conversation.SpeakerUser, Text: query})

	var grounding string
	lowered := strings.ToLower(query)
	if strings.Contains(lowered, "dislogroup") || strings.Contains(lowered, "entreprise") {
		grounding = companyInfo
	} else {
		grounding = s.assembleContext(ctx, identity)
	}

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nAnswer using only the provided context.", grounding, query)

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.recordInteraction(identity, "ask", query, "erreur", err.Error(), start)
		return "", err
	}

	s.store.Append(identity, conversation.Turn{Speaker: conversation.SpeakerAssistant, Text: answer})
	s.recordInteraction(identity, "ask", query, "ok", "", start)
	return answer, nil
}

// assembleContext concatenates the domain summaries in fixed order, then the
// conversation transcript. A failing summarizer is replaced by a placeholder
// so one sick domain cannot take the whole answer down.
func (s *assistantService) assembleContext(ctx context.Context, identity string) string {
	sections := []struct {
		label string
		src   GroundingSummarizer
	}{
		{"Produits", s.sources.Products},
		{"Clients", s.sources.Clients},
		{"Commandes", s.sources.Orders},
		{"Utilisateurs", s.sources.Users},
		{"Promotions", s.sources.Promotions},
		{"Routes", s.sources.Routes},
		{"Stocks", s.sources.Stocks},
		{"Visites", s.sources.Visits},
	}

	parts := make([]string, 0, len(sections)+1)
	for _, sec := range sections {
		if sec.src == nil {
			continue
		}
		summary, err := sec.src.SummarizeForGrounding(ctx)
		if err != nil {
			if s.log != nil {
				s.log.WithError(err).WithField("section", sec.label).Warn("grounding section unavailable")
			}
			summary = sec.label + " : (indisponible)"
		}
		parts = append(parts, summary)
	}

	parts = append(parts, "Historique de conversation :\n"+s.store.Transcript(identity))
	return strings.Join(parts, "\n\n")
}

func (s *assistantService) recordInteraction(identity, kind, query, outcome, detail string, start time.Time) {
	if s.audit == nil {
		return
	}

	// audit is best-effort and must never block or fail the caller
	it := &mongorepo.Interaction{
		ID:        uuid.NewString(),
		Identity:  identity,
		Kind:      kind,
		Query:     query,
		Outcome:   outcome,
		Detail:    detail,
		LatencyMS: s.now().Sub(start).Milliseconds(),
		CreatedAt: s.now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.audit.Insert(ctx, it); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to record interaction")
	}
}
