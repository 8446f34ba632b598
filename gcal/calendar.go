/*
Package gcal is the Google Calendar boundary of the payroll system.

PURPOSE:
  Fetches appointment events for an employee's calendar and maps them to
  the read-only payroll.CalendarEvent model. The calculation core never
  talks to the network; this package is the only place Google API types
  appear.

EVENT MAPPING:
  - Cancelled:        Google event status "cancelled" (ShowDeleted is on
                      so cancellations are visible to the billability rule)
  - Pending payment:  A configurable event color marks sessions that
                      happened but await settlement
  - All-day events are skipped; sessions always carry a start time

AUTH:
  OAuth2 desktop flow. Client ID/secret come from the environment (or
  credentials.json); the refresh token is cached in a token file created
  by the auth flow helpers below.

SEE ALSO:
  - payroll/types.go: CalendarSource interface this package implements
  - cmd/server: Wires the client from environment configuration
*/
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

const credentialsFile = "credentials.json"

// DefaultPendingPaymentColorID is the Google Calendar color that marks a
// session as pending payment ("5" is banana/yellow in the event palette).
const DefaultPendingPaymentColorID = "5"

// Client fetches calendar events and converts them to the payroll model.
type Client struct {
	service        *calendar.Service
	pendingColorID string
}

var _ payroll.CalendarSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithPendingPaymentColor overrides the event color treated as
// pending-payment.
func WithPendingPaymentColor(colorID string) Option {
	return func(c *Client) { c.pendingColorID = colorID }
}

// New creates an authenticated calendar client. The token file must have
// been produced by the auth flow (TokenFromWeb + SaveToken).
func New(ctx context.Context, clientID, clientSecret, tokenFile string, opts ...Option) (*Client, error) {
	config, err := OAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token from %s: %w (run the auth flow first)", tokenFile, err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	c := &Client{service: service, pendingColorID: DefaultPendingPaymentColorID}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Events implements payroll.CalendarSource: all events for the calendar
// whose start falls in the period, including cancelled ones (the
// billability rule needs to see them).
func (c *Client) Events(ctx context.Context, calendarID string, period payroll.Period) ([]payroll.CalendarEvent, error) {
	call := c.service.Events.List(calendarID).
		Context(ctx).
		ShowDeleted(true).
		SingleEvents(true).
		TimeMin(period.Start.Format(time.RFC3339)).
		TimeMax(period.End.Format(time.RFC3339)).
		OrderBy("startTime")

	var events []payroll.CalendarEvent
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve events for %s: %w", calendarID, err)
		}
		for _, item := range resp.Items {
			if ev, ok := c.toPayrollEvent(item); ok {
				events = append(events, ev)
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return events, nil
		}
	}
}

// toPayrollEvent converts one Google event. All-day events (date without a
// time) are not sessions and are dropped.
func (c *Client) toPayrollEvent(item *calendar.Event) (payroll.CalendarEvent, bool) {
	if item.Start == nil || item.Start.DateTime == "" {
		return payroll.CalendarEvent{}, false
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return payroll.CalendarEvent{}, false
	}
	var end time.Time
	if item.End != nil && item.End.DateTime != "" {
		end, _ = time.Parse(time.RFC3339, item.End.DateTime)
	}

	var attendees []string
	for _, a := range item.Attendees {
		attendees = append(attendees, a.Email)
	}

	return payroll.CalendarEvent{
		ID:               item.Id,
		Title:            item.Summary,
		Start:            start,
		End:              end,
		ColorID:          item.ColorId,
		IsCancelled:      item.Status == "cancelled",
		IsPendingPayment: item.ColorId != "" && item.ColorId == c.pendingColorID,
		Attendees:        attendees,
	}, true
}

// ListCalendars returns the IDs of all calendars visible to the account,
// for wiring an employee record to the right calendar.
func (c *Client) ListCalendars(ctx context.Context) ([]string, error) {
	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var ids []string
	for _, item := range list.Items {
		ids = append(ids, item.Id)
	}
	return ids, nil
}

// =============================================================================
// OAUTH HELPERS
// =============================================================================

// OAuthConfig builds the OAuth2 config from explicit credentials, falling
// back to a local credentials.json.
func OAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("no OAuth credentials: set GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET or provide %s: %w", credentialsFile, err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", credentialsFile, err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // desktop app flow
	return config, nil
}

// TokenFromWeb exchanges an auth code for a token during the auth flow.
func TokenFromWeb(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// SaveToken writes a token to disk for later runs.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
