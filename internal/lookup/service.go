// Package lookup exposes the phone number engine as a traced, metered
// service and serves it over HTTP.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/internal/observability"
	"github.com/aelexs/phonekit/pkg/api"
	"github.com/aelexs/phonekit/pkg/metadata"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

var tracer = otel.Tracer("lookup")

var (
	parseTotal        metric.Int64Counter
	formatTotal       metric.Int64Counter
	matchesFoundTotal metric.Int64Counter
)

func init() {
	m := otel.Meter("lookup")

	parseTotal = observability.NewInt64Counter(m, "phone_parse_total",
		"Parse attempts by result")
	formatTotal = observability.NewInt64Counter(m, "phone_format_total",
		"Numbers formatted by style")
	matchesFoundTotal = observability.NewInt64Counter(m, "phone_matches_found_total",
		"Numbers found in free text by leniency")
}

// Config holds the dependencies and request defaults for Service.
type Config struct {
	Util          *phonenumbers.Util // Defaults to phonenumbers.Default()
	Clock         domain.Clock       // Defaults to domain.RealClock
	Logger        *slog.Logger       // Defaults to slog.Default()
	DefaultRegion string
	Leniency      phonenumbers.Leniency
	MaxTries      int
}

// Service answers number lookups against one Util.
type Service struct {
	util          *phonenumbers.Util
	clock         domain.Clock
	logger        *slog.Logger
	defaultRegion string
	leniency      phonenumbers.Leniency
	maxTries      int
}

// NewService creates a Service from cfg.
func NewService(cfg Config) *Service {
	s := &Service{
		util:          cfg.Util,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		defaultRegion: strings.ToUpper(cfg.DefaultRegion),
		leniency:      cfg.Leniency,
		maxTries:      cfg.MaxTries,
	}
	if s.util == nil {
		s.util = phonenumbers.Default()
	}
	if s.clock == nil {
		s.clock = domain.RealClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.defaultRegion == "" {
		s.defaultRegion = metadata.UnknownRegion
	}
	return s
}

func (s *Service) region(r string) string {
	if r == "" {
		return s.defaultRegion
	}
	return strings.ToUpper(strings.TrimSpace(r))
}

func (s *Service) logSlow(ctx context.Context, op string, start time.Time) {
	if d := domain.Since(s.clock, start); d > domain.SlowLookupThreshold {
		observability.WithTraceID(ctx, s.logger).WarnContext(ctx, "slow lookup",
			slog.String("op", op), slog.Duration("duration", d))
	}
}

func (s *Service) parse(ctx context.Context, number, region string) (*phonenumbers.PhoneNumber, error) {
	if strings.TrimSpace(number) == "" {
		parseTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "empty")))
		return nil, fmt.Errorf("%w: number is required", domain.ErrInvalidPhoneNumber)
	}
	n, err := s.util.Parse(number, s.region(region))
	if err != nil {
		result := "error"
		var pe *phonenumbers.ParseError
		if errors.As(err, &pe) {
			result = pe.Kind.String()
		}
		parseTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
		return nil, fmt.Errorf("parse number: %w", err)
	}
	parseTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "ok")))
	return n, nil
}

// Describe renders everything known about n.
func (s *Service) Describe(n *phonenumbers.PhoneNumber) api.NumberInfo {
	reason := s.util.IsPossibleNumberWithReason(n)
	return api.NumberInfo{
		CountryCode:    n.GetCountryCode(),
		NationalNumber: n.GetNationalNumber(),
		Extension:      n.GetExtension(),
		E164:           domain.E164FromNumber(s.util, n).String(),
		International:  s.util.Format(n, phonenumbers.International),
		National:       s.util.Format(n, phonenumbers.National),
		RFC3966:        s.util.Format(n, phonenumbers.RFC3966),
		Region:         s.util.GetRegionCodeForNumber(n),
		Type:           s.util.GetNumberType(n).String(),
		Valid:          s.util.IsValidNumber(n),
		Possible:       reason == phonenumbers.IsPossible || reason == phonenumbers.IsPossibleLocalOnly,
		Possibility:    reason.String(),
		Geographical:   s.util.IsNumberGeographical(n),
	}
}

// Parse parses number, using region or the service default for numbers
// written without a country code.
func (s *Service) Parse(ctx context.Context, number, region string) (*api.NumberInfo, error) {
	ctx, span := tracer.Start(ctx, "lookup.parse")
	defer span.End()
	defer s.logSlow(ctx, "parse", s.clock.Now())

	span.SetAttributes(attribute.String("region", s.region(region)))

	n, err := s.parse(ctx, number, region)
	if err != nil {
		return nil, observability.RecordError(span, err)
	}
	info := s.Describe(n)
	span.SetAttributes(attribute.Bool("valid", info.Valid), attribute.String("type", info.Type))

	observability.WithTraceID(ctx, s.logger).DebugContext(ctx, "number parsed",
		slog.Any("number", domain.E164FromNumber(s.util, n)), slog.String("type", info.Type))
	return &info, nil
}

// Format parses number and formats it in style. A non-empty from formats the
// number for dialling out of that region instead.
func (s *Service) Format(ctx context.Context, number, region, style, from string) (*api.FormatResponse, error) {
	ctx, span := tracer.Start(ctx, "lookup.format")
	defer span.End()
	defer s.logSlow(ctx, "format", s.clock.Now())

	n, err := s.parse(ctx, number, region)
	if err != nil {
		return nil, observability.RecordError(span, err)
	}

	if from != "" {
		from = strings.ToUpper(from)
		formatTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("style", "OUT_OF_COUNTRY")))
		return &api.FormatResponse{
			Style:     "OUT_OF_COUNTRY",
			Formatted: s.util.FormatOutOfCountryCallingNumber(n, from),
		}, nil
	}

	if style == "" {
		style = domain.DefaultStyle
	}
	f, err := phonenumbers.ParseFormat(style)
	if err != nil {
		return nil, observability.RecordError(span, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
	}
	formatTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("style", f.String())))

	return &api.FormatResponse{Style: f.String(), Formatted: s.util.Format(n, f)}, nil
}

// Find returns the numbers found in req.Text.
func (s *Service) Find(ctx context.Context, req api.FindRequest) (*api.FindResponse, error) {
	ctx, span := tracer.Start(ctx, "lookup.find")
	defer span.End()
	defer s.logSlow(ctx, "find", s.clock.Now())

	if len(req.Text) > domain.MaxFindTextLength {
		return nil, observability.RecordError(span,
			fmt.Errorf("%w: %d bytes, limit %d", domain.ErrTextTooLarge, len(req.Text), domain.MaxFindTextLength))
	}

	leniency := s.leniency
	if req.Leniency != "" {
		l, err := phonenumbers.ParseLeniency(req.Leniency)
		if err != nil {
			return nil, observability.RecordError(span, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
		}
		leniency = l
	}
	maxTries := s.maxTries
	if req.MaxTries != nil {
		maxTries = *req.MaxTries
	}

	region := s.region(req.Region)
	span.SetAttributes(
		attribute.String("region", region),
		attribute.String("leniency", leniency.String()),
		attribute.Int("max_tries", maxTries),
	)

	matcher := s.util.FindNumbersWithLeniency(req.Text, region, leniency, maxTries)
	resp := &api.FindResponse{Leniency: leniency.String(), Matches: []api.FoundNumber{}}
	for m, ok := matcher.Next(); ok; m, ok = matcher.Next() {
		resp.Matches = append(resp.Matches, api.FoundNumber{
			Start:  m.Start,
			End:    m.End(),
			Raw:    m.RawString,
			E164:   s.util.Format(m.Number, phonenumbers.E164),
			Region: s.util.GetRegionCodeForNumber(m.Number),
		})
	}

	matchesFoundTotal.Add(ctx, int64(len(resp.Matches)),
		metric.WithAttributes(attribute.String("leniency", leniency.String())))
	span.SetAttributes(attribute.Int("matches", len(resp.Matches)))
	return resp, nil
}

// AsYouType feeds req.Input to a fresh formatter one character at a time.
func (s *Service) AsYouType(ctx context.Context, req api.AsYouTypeRequest) (*api.AsYouTypeResponse, error) {
	_, span := tracer.Start(ctx, "lookup.as_you_type")
	defer span.End()

	if utf8.RuneCountInString(req.Input) > domain.MaxAsYouTypeInput {
		return nil, observability.RecordError(span,
			fmt.Errorf("%w: input longer than %d characters", domain.ErrInvalidInput, domain.MaxAsYouTypeInput))
	}

	f := s.util.NewAsYouTypeFormatter(s.region(req.Region))
	resp := &api.AsYouTypeResponse{Outputs: make([]string, 0, len(req.Input))}
	for _, r := range req.Input {
		resp.Result = f.InputDigit(r)
		resp.Outputs = append(resp.Outputs, resp.Result)
	}
	return resp, nil
}

// Match compares two numbers given as text.
func (s *Service) Match(ctx context.Context, first, second string) (*api.MatchResponse, error) {
	_, span := tracer.Start(ctx, "lookup.match")
	defer span.End()

	if first == "" || second == "" {
		return nil, observability.RecordError(span,
			fmt.Errorf("%w: first and second are required", domain.ErrInvalidInput))
	}
	result := s.util.IsNumberMatchWithTwoStrings(first, second)
	span.SetAttributes(attribute.String("result", result.String()))
	return &api.MatchResponse{Result: result.String()}, nil
}

// Regions lists the supported regions and non-geographic calling codes.
func (s *Service) Regions(ctx context.Context) *api.RegionList {
	_, span := tracer.Start(ctx, "lookup.regions")
	defer span.End()

	codes := s.util.SupportedRegions()
	list := &api.RegionList{
		Regions:           make([]api.Region, 0, len(codes)),
		NonGeographicalCC: s.util.SupportedGlobalNetworkCallingCodes(),
	}
	for _, code := range codes {
		list.Regions = append(list.Regions, api.Region{
			Code:           code,
			CountryCode:    s.util.CountryCodeForRegion(code),
			MobilePortable: s.util.IsMobileNumberPortableRegion(code),
		})
	}
	return list
}

// Example returns an example number of typ for region. An empty typ means
// FIXED_LINE.
func (s *Service) Example(ctx context.Context, region, typ string) (*api.ExampleResponse, error) {
	_, span := tracer.Start(ctx, "lookup.example")
	defer span.End()

	region = strings.ToUpper(region)
	if !s.util.IsValidRegion(region) {
		return nil, observability.RecordError(span, fmt.Errorf("region %q: %w", region, domain.ErrUnknownRegion))
	}

	t := phonenumbers.FixedLine
	if typ != "" {
		parsed, err := phonenumbers.ParseNumberType(typ)
		if err != nil {
			return nil, observability.RecordError(span, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
		}
		t = parsed
	}

	n := s.util.ExampleNumberForType(region, t)
	if n == nil {
		return nil, observability.RecordError(span, fmt.Errorf("no %s example for %s: %w", t, region, domain.ErrNotFound))
	}
	return &api.ExampleResponse{Region: region, Type: t.String(), Number: s.Describe(n)}, nil
}
