package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/providers/llm"
	mongorepo "github.com/dislogroup/salesflow/internal/repositories/mongo"
	"github.com/dislogroup/salesflow/internal/utils"
)

const deliveryDelayDays = 3

// ExtractedOrder is the model's structured reading of a free-form order.
// Untrusted input: every field is validated before any catalog lookup.
type ExtractedOrder struct {
	Client   string          `json:"client"`
	Produits []ExtractedLine `json:"produits"`
}

type ExtractedLine struct {
	Nom      string `json:"nom"`
	Quantite int    `json:"quantite"`
}

const orderPromptTemplate = `Tu es un assistant qui corrige et structure les commandes commerciales.

Voici la liste des clients valides : [%s]
Voici la liste des produits valides : [%s]

À partir du texte ci-dessous (même mal écrit), fais les 2 choses suivantes :
1. Corrige les fautes (orthographe, accents, grammaire)
2. Identifie clairement :
    - Le nom exact du client (existant dans la liste)
    - Les produits (noms + quantités) même si mal orthographiés

Retourne le résultat dans ce format JSON strict, sans aucun autre texte :

{
  "client": "Nom Client",
  "produits": [
    { "nom": "Produit A", "quantite": 3 },
    { "nom": "Produit B", "quantite": 2 }
  ]
}

Commande reçue : "%s"`

type IntakeService interface {
	// PlaceOrder turns a free-form sentence into a persisted order. The
	// returned string is always a user-facing result: confirmations carry
	// the new order id, business failures carry an error marker. Nothing
	// classifiable escapes as a raw error.
	PlaceOrder(ctx context.Context, username, raw string) string
}

type intakeService struct {
	llm      llm.Provider
	clients  ClientService
	products ProductService
	orders   OrderService
	users    UserService
	audit    mongorepo.InteractionRepo
	log      *logrus.Logger
	now      func() time.Time
}

func NewIntakeService(provider llm.Provider, clients ClientService, products ProductService, orders OrderService, users UserService, audit mongorepo.InteractionRepo, log *logrus.Logger) IntakeService {
	return &intakeService{
		llm:      provider,
		clients:  clients,
		products: products,
		orders:   orders,
		users:    users,
		audit:    audit,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *intakeService) PlaceOrder(ctx context.Context, username, raw string) string {
	start := s.now()

	result, err := s.placeOrder(ctx, username, raw)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("utilisateur", username).Warn("order intake failed")
		}
		s.recordInteraction(username, raw, "erreur", err.Error(), start)
		return "❌ Erreur lors du traitement : " + utils.Message(err)
	}

	s.recordInteraction(username, raw, "ok", "", start)
	return result
}

func (s *intakeService) placeOrder(ctx context.Context, username, raw string) (string, error) {
	const op = "IntakeService.placeOrder"

	if strings.TrimSpace(username) == "" {
		return "", utils.E(utils.CodeUnauthorized, op, "aucun utilisateur connecte", nil)
	}
	vendeur, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	extracted, err := s.extract(ctx, raw)
	if err != nil {
		return "", err
	}

	order, client, err := s.buildOrder(ctx, extracted)
	if err != nil {
		return "", err
	}

	saved, err := s.orders.Create(ctx, order, vendeur)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Commande créée pour **%s** avec ID: %d", client.Name, saved.ID), nil
}

// extract asks the model to correct and structure the raw sentence, then
// parses and schema-checks the reply. The catalog names embedded in the
// prompt are what lets the model fix spelling against real entities.
func (s *intakeService) extract(ctx context.Context, raw string) (*ExtractedOrder, error) {
	const op = "IntakeService.extract"

	if strings.TrimSpace(raw) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "commande vide", nil)
	}

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	clientNames := make([]string, 0, len(clients))
	for _, c := range clients {
		clientNames = append(clientNames, c.Name)
	}
	productNames := make([]string, 0, len(products))
	for _, p := range products {
		productNames = append(productNames, p.Name)
	}

	prompt := fmt.Sprintf(orderPromptTemplate,
		strings.Join(clientNames, ", "),
		strings.Join(productNames, ", "),
		raw)

	// retry is the provider's concern; a single call here
	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	extracted, err := parseExtractedOrder(reply)
	if err != nil {
		if s.log != nil {
			s.log.WithField("reponse_brute", reply).Warn("unparseable extraction reply")
		}
		return nil, utils.E(utils.CodeBadGateway, op, "reponse IA non valide : JSON attendu", err)
	}
	return extracted, nil
}

func parseExtractedOrder(reply string) (*ExtractedOrder, error) {
	var out ExtractedOrder
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Client) == "" {
		return nil, fmt.Errorf("champ 'client' vide")
	}
	if len(out.Produits) == 0 {
		return nil, fmt.Errorf("aucune ligne produit")
	}
	for _, l := range out.Produits {
		if strings.TrimSpace(l.Nom) == "" {
			return nil, fmt.Errorf("nom de produit vide")
		}
		if l.Quantite <= 0 {
			return nil, fmt.Errorf("quantite invalide : %d", l.Quantite)
		}
	}
	return &out, nil
}

// stripCodeFences tolerates replies wrapped in markdown fences.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// buildOrder resolves every extracted name against the catalog and
// assembles the pending aggregate. All-or-nothing: the first unresolved
// entity aborts the build with nothing persisted.
func (s *intakeService) buildOrder(ctx context.Context, extracted *ExtractedOrder) (*models.Order, *models.Client, error) {
	client, err := s.clients.ResolveByName(ctx, extracted.Client)
	if err != nil {
		return nil, nil, err
	}

	created := s.now()
	order := &models.Order{
		ClientID:     client.ID,
		Status:       models.OrderStatusPending,
		CreatedDate:  created,
		DeliveryDate: created.AddDate(0, 0, deliveryDelayDays),
	}

	for _, line := range extracted.Produits {
		product, err := s.products.ResolveByName(ctx, line.Nom)
		if err != nil {
			return nil, nil, err
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID: product.ID,
			Quantity:  line.Quantite,
			// price fixed now, immune to later catalog changes
			UnitPrice: product.UnitPrice,
		})
	}
	return order, client, nil
}

func (s *intakeService) recordInteraction(identity, query, outcome, detail string, start time.Time) {
	if s.audit == nil {
		return
	}

	it := &mongorepo.Interaction{
		ID:        uuid.NewString(),
		Identity:  identity,
		Kind:      "commande",
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
