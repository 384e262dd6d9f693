package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dharmasatrya/jetset/internal/dates"
	"github.com/dharmasatrya/jetset/internal/extractor"
	"github.com/dharmasatrya/jetset/internal/gateway"
	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/normalizer"
	"github.com/dharmasatrya/jetset/internal/store"
)

const tracerName = "github.com/dharmasatrya/jetset/internal/orchestrator"

type Extractor interface {
	Extract(ctx context.Context, utterance string, history []models.Turn, pending models.Pending) (extractor.Intent, error)
}

type Gateway interface {
	ResolveRoute(ctx context.Context, origin, destination string) (gateway.Route, error)
	SearchFlights(ctx context.Context, q gateway.FlightQuery) ([]json.RawMessage, error)
}

type Config struct {
	OracleTimeout time.Duration
	TravelTimeout time.Duration
	HistoryTurns  int
	ResultLimit   int
}

func DefaultConfig() Config {
	return Config{
		OracleTimeout: 2 * time.Minute,
		TravelTimeout: 30 * time.Second,
		HistoryTurns:  10,
		ResultLimit:   normalizer.DefaultLimit,
	}
}

// Reply is the outcome of one chat turn. Text is always set.
type Reply struct {
	ConversationID string
	Text           string
	Intent         extractor.Kind
	Flights        *models.FlightResult
	ErrorCode      ErrorCode
}

// Orchestrator runs the per-turn pipeline and owns conversation state.
// Turns for one conversation id run one at a time; different ids run in
// parallel.
type Orchestrator struct {
	extractor Extractor
	gateway   Gateway
	store     store.Store
	clock     dates.Clock
	cfg       Config
	locks     *keyedMutex
	tracer    trace.Tracer
	logger    *slog.Logger
}

func New(ex Extractor, gw Gateway, st store.Store, clock dates.Clock, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = def.OracleTimeout
	}
	if cfg.TravelTimeout <= 0 {
		cfg.TravelTimeout = def.TravelTimeout
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = def.HistoryTurns
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = def.ResultLimit
	}
	if clock == nil {
		clock = dates.SystemClock{}
	}

	return &Orchestrator{
		extractor: ex,
		gateway:   gw,
		store:     st,
		clock:     clock,
		cfg:       cfg,
		locks:     newKeyedMutex(),
		tracer:    otel.Tracer(tracerName),
		logger:    slog.Default().With(slog.String("component", "orchestrator")),
	}
}

// HandleChat processes one user message. An empty conversationID starts a
// new conversation with a generated id.
func (o *Orchestrator) HandleChat(ctx context.Context, message, conversationID string) *Reply {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	unlock := o.locks.Lock(conversationID)
	defer unlock()

	ctx, span := o.tracer.Start(ctx, "chat.turn", trace.WithAttributes(
		attribute.String("conversation.id", conversationID),
	))
	defer span.End()

	logger := o.logger.With(slog.String("conversation_id", conversationID))
	conv := o.load(ctx, conversationID, logger)

	reply := o.turn(ctx, conv, message, logger)
	reply.ConversationID = conversationID

	conv.Append(o.cfg.HistoryTurns,
		models.Turn{Role: models.RoleUser, Content: message},
		models.Turn{Role: models.RoleAssistant, Content: reply.Text},
	)
	if err := o.store.Set(context.WithoutCancel(ctx), conv); err != nil {
		logger.Error("save conversation failed", slog.String("error", err.Error()))
	}

	span.SetAttributes(
		attribute.String("chat.intent", string(reply.Intent)),
		attribute.String("chat.state", string(conv.State())),
	)
	if reply.ErrorCode != "" {
		span.SetAttributes(attribute.String("chat.error_code", string(reply.ErrorCode)))
		span.SetStatus(codes.Error, string(reply.ErrorCode))
	}
	return reply
}

// Reset forgets a conversation. Unknown ids are not an error.
func (o *Orchestrator) Reset(ctx context.Context, conversationID string) error {
	unlock := o.locks.Lock(conversationID)
	defer unlock()

	return o.store.Delete(ctx, conversationID)
}

func (o *Orchestrator) load(ctx context.Context, id string, logger *slog.Logger) *models.ConversationContext {
	conv, err := o.store.Get(ctx, id)
	if err == nil {
		return conv
	}
	if !errors.Is(err, store.ErrNotFound) {
		logger.Error("load conversation failed, starting fresh", slog.String("error", err.Error()))
	}
	return models.NewConversationContext(id)
}

func (o *Orchestrator) turn(ctx context.Context, conv *models.ConversationContext, message string, logger *slog.Logger) *Reply {
	intent, err := o.extract(ctx, conv, message)
	if err != nil {
		code := Classify(err)
		logger.Error("intent extraction failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()),
		)
		return &Reply{Text: ComposeFailure(code, nil), ErrorCode: code}
	}

	if _, ok := intent.(extractor.DateRangeClarification); !ok {
		conv.AwaitingClarification = nil
	}

	switch it := intent.(type) {
	case extractor.FlightSearch:
		return o.search(ctx, conv, it.Request, logger)

	case extractor.DateRangeClarification:
		conv.AwaitingClarification = it.Clarification()
		return &Reply{Text: it.Prompt, Intent: it.Kind()}

	case extractor.Incomplete:
		return &Reply{Text: it.Prompt, Intent: it.Kind()}

	case extractor.Conversation:
		// Fallback replies were already logged by the extractor and carry no
		// error code.
		return &Reply{Text: it.Reply, Intent: it.Kind()}

	default:
		return &Reply{Text: ComposeFailure(CodeExtractionFailed, nil), ErrorCode: CodeExtractionFailed}
	}
}

func (o *Orchestrator) extract(ctx context.Context, conv *models.ConversationContext, message string) (extractor.Intent, error) {
	ctx, span := o.tracer.Start(ctx, "extract")
	defer span.End()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.OracleTimeout)
	defer cancel()

	intent, err := o.extractor.Extract(callCtx, message, conv.History, conv.Pending())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("intent", string(intent.Kind())))
	return intent, nil
}

func (o *Orchestrator) search(ctx context.Context, conv *models.ConversationContext, req models.SearchRequest, logger *slog.Logger) *Reply {
	ctx, span := o.tracer.Start(ctx, "travel.search")
	defer span.End()

	now := o.clock.Now()
	depart := dates.Resolve(req.Date, now)
	req.ResolvedDate = depart.Date
	if req.ReturnDate != "" {
		req.ResolvedReturnDate = dates.ResolveDate(req.ReturnDate, now)
	}

	logger.Info("flight search",
		slog.String("origin", req.Origin),
		slog.String("destination", req.Destination),
		slog.String("date", req.Date),
		slog.String("resolved_date", req.ResolvedDate),
		slog.String("date_reason", depart.Reason),
	)
	span.SetAttributes(
		attribute.String("search.origin", req.Origin),
		attribute.String("search.destination", req.Destination),
		attribute.String("search.date", req.ResolvedDate),
	)

	saved := req
	conv.LastSearch = &saved

	fail := func(err error) *Reply {
		code := Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		logger.Warn("flight search failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()),
		)
		return &Reply{Text: ComposeFailure(code, &req), Intent: extractor.KindFlightSearch, ErrorCode: code}
	}

	routeCtx, cancelRoute := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.TravelTimeout)
	route, err := o.gateway.ResolveRoute(routeCtx, req.Origin, req.Destination)
	cancelRoute()
	if err != nil {
		return fail(err)
	}

	searchCtx, cancelSearch := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.TravelTimeout)
	offers, err := o.gateway.SearchFlights(searchCtx, gateway.FlightQuery{
		FromID:     route.Origin.ID,
		ToID:       route.Destination.ID,
		DepartDate: req.ResolvedDate,
		ReturnDate: req.ResolvedReturnDate,
		Adults:     req.Adults,
		CabinClass: req.CabinClass,
	})
	cancelSearch()
	if err != nil {
		return fail(err)
	}

	flights, summary := normalizer.Normalize(offers, req.CabinClass.Label(), o.cfg.ResultLimit)
	if summary.Skipped > 0 {
		logger.Warn("skipped malformed offers",
			slog.String("code", string(CodeMalformedOffer)),
			slog.Int("count", summary.Skipped),
		)
	}
	summary = summary.WithRoute(req.Origin, req.Destination, req.ResolvedDate)
	span.SetAttributes(attribute.Int("search.results", summary.TotalResults))

	result := &models.FlightResult{Flights: flights, Summary: summary}
	if len(flights) == 0 {
		return &Reply{Text: ComposeNoFlights(req), Intent: extractor.KindFlightSearch, Flights: result}
	}
	return &Reply{Text: ComposeResults(req, flights, summary), Intent: extractor.KindFlightSearch, Flights: result}
}
