package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/agenda/internal/agenda"
	"github.com/teemow/agenda/internal/google"
	"github.com/teemow/agenda/internal/instrumentation"
	"github.com/teemow/agenda/internal/logging"
)

// DefaultMaxTries bounds the attempts made for one API call.
const DefaultMaxTries = 4

const operationCalendarList = "calendar_list"

// Client wraps the Google Calendar service
type Client struct {
	svc        *calendar.Service
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	maxTries   uint
	newBackOff func() backoff.BackOff
	apiOptions []option.ClientOption
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records API operations and retries.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRetry sets the maximum number of attempts per call and the backoff
// policy between them.
func WithRetry(maxTries uint, newBackOff func() backoff.BackOff) Option {
	return func(c *Client) {
		if maxTries > 0 {
			c.maxTries = maxTries
		}
		if newBackOff != nil {
			c.newBackOff = newBackOff
		}
	}
}

// WithEndpoint overrides the Calendar API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.apiOptions = append(c.apiOptions, option.WithEndpoint(endpoint))
	}
}

// NewClient creates a Calendar client that sends requests through httpClient,
// which is expected to handle authentication.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	c := &Client{
		logger:   slog.Default(),
		maxTries: DefaultMaxTries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithService(c.logger, instrumentation.ServiceCalendar)

	apiOptions := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.apiOptions...)
	svc, err := calendar.NewService(ctx, apiOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// NewClientWithProvider creates a Calendar client authenticated with the
// token from provider. Refreshed tokens are saved to store.
func NewClientWithProvider(ctx context.Context, conf *oauth2.Config, provider google.TokenProvider, store *google.TokenStore, opts ...Option) (*Client, error) {
	httpClient, err := google.NewHTTPClient(ctx, conf, provider, store)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token: %w", err)
	}
	return NewClient(ctx, httpClient, opts...)
}

// FetchDay returns the timed events of day from every calendar in
// calendarIDs, in calendar order and API order within a calendar. The
// first failing calendar aborts the fetch.
func (c *Client) FetchDay(ctx context.Context, calendarIDs []string, day Day) ([]agenda.Event, error) {
	var events []agenda.Event
	for _, id := range calendarIDs {
		summaries, err := c.ListEvents(ctx, id, day)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for calendar %s: %w", id, err)
		}

		skipped := 0
		for _, s := range summaries {
			e, ok := s.AgendaEvent()
			if !ok {
				skipped++
				continue
			}
			events = append(events, e)
		}
		if skipped > 0 {
			c.logger.Debug("skipped events without a time of day",
				logging.Calendar(id),
				slog.Int("skipped", skipped))
		}
	}
	return events, nil
}

// ListEvents lists the single (expanded) events of one calendar within day.
func (c *Client) ListEvents(ctx context.Context, calendarID string, day Day) ([]EventSummary, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList,
		attribute.String(instrumentation.SpanAttrCalendarID, calendarID),
		attribute.String(instrumentation.SpanAttrDate, day.String()))
	defer span.End()

	start := time.Now()
	var summaries []EventSummary
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarID).
			TimeMin(day.TimeMin()).
			TimeMax(day.TimeMax()).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := retry(ctx, c, instrumentation.OperationList, call.Do)
		if err != nil {
			c.record(ctx, instrumentation.OperationList, start, err)
			instrumentation.SetSpanError(span, err)
			c.logger.Debug("listing events failed",
				logging.Operation("calendar.list"),
				logging.Calendar(calendarID),
				logging.Status(logging.StatusError),
				logging.Err(err))
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		instrumentation.AddSpanEvent(span, "page",
			attribute.Int(instrumentation.SpanAttrEventCount, len(events.Items)))

		for _, event := range events.Items {
			summaries = append(summaries, toEventSummary(event))
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.record(ctx, instrumentation.OperationList, start, nil)
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEventCount, len(summaries)))
	instrumentation.SetSpanSuccess(span)

	c.logger.Debug("listed events",
		logging.Operation("calendar.list"),
		logging.Calendar(calendarID),
		logging.Date(day.String()),
		logging.Status(logging.StatusSuccess),
		slog.Int("count", len(summaries)),
		slog.Duration(logging.KeyDuration, time.Since(start)))
	return summaries, nil
}

// ListCalendars lists all calendars accessible to the user
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, operationCalendarList)
	defer span.End()

	start := time.Now()
	var calendars []CalendarInfo
	pageToken := ""
	for {
		call := c.svc.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := retry(ctx, c, operationCalendarList, call.Do)
		if err != nil {
			c.record(ctx, operationCalendarList, start, err)
			instrumentation.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to list calendars: %w", err)
		}

		for _, entry := range list.Items {
			calendars = append(calendars, toCalendarInfo(entry))
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.record(ctx, operationCalendarList, start, nil)
	instrumentation.SetSpanSuccess(span)
	return calendars, nil
}

func (c *Client) record(ctx context.Context, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, time.Since(start))
}

// retry runs do until it succeeds, fails permanently or runs out of tries.
func retry[T any](ctx context.Context, c *Client, operation string, do func(...googleapi.CallOption) (T, error)) (T, error) {
	return backoff.Retry(ctx,
		func() (T, error) {
			v, err := do()
			if err != nil && !isRetryable(err) {
				return v, backoff.Permanent(err)
			}
			return v, err
		},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.metrics.RecordGoogleAPIRetry(ctx, instrumentation.ServiceCalendar, operation)
			c.logger.Warn("retrying Calendar API call",
				logging.Operation("calendar."+operation),
				slog.Duration("wait", wait),
				logging.Err(err))
		}),
	)
}

// isRetryable reports whether err is worth another attempt: rate limiting,
// server errors and transport failures are, everything else is not.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return false
	}
	return true
}
