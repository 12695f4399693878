package initiator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/directory"
	"realtor-feedback/internal/telephony"
)

var (
	ErrInvalidPhone = errors.New("initiator: invalid phone number")
)

// Tx is the transaction-scoped view of storage during one initiation attempt.
// Writes are visible to subsequent reads within the same attempt and are
// committed only if the whole attempt succeeds.
type Tx interface {
	FirstAgent(ctx context.Context) (directory.Agent, bool, error)
	InsertAgent(ctx context.Context, a directory.Agent) error
	FindClientByPhone(ctx context.Context, phone string) (directory.Client, bool, error)
	InsertClient(ctx context.Context, c directory.Client) error
	InsertCall(ctx context.Context, c calls.Call) error
}

// Store runs one initiation attempt as a unit of work. If fn returns an
// error, every entity created during the attempt is rolled back.
type Store interface {
	Initiate(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Dialer is the telephony-provider subset the initiator needs.
type Dialer interface {
	PlaceCall(ctx context.Context, req telephony.PlaceCallRequest) (telephony.PlaceCallResult, error)
}

// Service places outbound feedback calls: resolve (or create) the agent and
// client, build the voice script, dial, and persist the call attempt.
type Service struct {
	store  Store
	dialer Dialer

	fromNumber    string
	callbackURL   string
	defaultPrefix string

	clock func() time.Time
}

type Options struct {
	// FromNumber is the outbound caller id.
	FromNumber string

	// CallbackURL receives recording webhooks; embedded in the voice script.
	CallbackURL string

	// DefaultCountryPrefix is prepended to numbers without a leading +.
	DefaultCountryPrefix string
}

func NewService(store Store, dialer Dialer, opts Options) *Service {
	prefix := opts.DefaultCountryPrefix
	if prefix == "" {
		prefix = "+1"
	}
	return &Service{
		store:         store,
		dialer:        dialer,
		fromNumber:    opts.FromNumber,
		callbackURL:   opts.CallbackURL,
		defaultPrefix: prefix,
		clock:         time.Now,
	}
}

// Result reports a successfully placed call.
type Result struct {
	ProviderCallSID string `json:"call_sid"`
	Message         string `json:"message"`
}

// NormalizePhone converts a raw phone string to canonical dialable form.
// Formatting characters (spaces, hyphens, dots, parentheses) are stripped;
// a number without a leading + gets defaultPrefix prepended. The rule is
// deterministic and makes no attempt to guess intent beyond that.
func NormalizePhone(raw, defaultPrefix string) (string, error) {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// formatting only
		default:
			return "", ErrInvalidPhone
		}
	}
	s := b.String()
	if s == "" || s == "+" {
		return "", ErrInvalidPhone
	}
	if !strings.HasPrefix(s, "+") {
		s = defaultPrefix + s
	}
	return s, nil
}

// InitiateCall runs the whole initiation as one unit of work. On any failure
// (invalid number, provider rejection, store failure) partially created
// entities are rolled back and a structured error is returned; nothing
// panics past this boundary.
func (s *Service) InitiateCall(ctx context.Context, rawPhone string) (Result, error) {
	phone, err := NormalizePhone(rawPhone, s.defaultPrefix)
	if err != nil {
		return Result{}, err
	}

	now := s.clock().UTC()
	var out Result

	err = s.store.Initiate(ctx, func(ctx context.Context, tx Tx) error {
		agent, ok, err := tx.FirstAgent(ctx)
		if err != nil {
			return fmt.Errorf("initiator: agent lookup: %w", err)
		}
		if !ok {
			agent = directory.Agent{
				ID:        uuid.NewString(),
				Name:      directory.SentinelAgentName,
				Brokerage: directory.SentinelAgentBrokerage,
				CreatedAt: now,
			}
			if err := tx.InsertAgent(ctx, agent); err != nil {
				return fmt.Errorf("initiator: agent create: %w", err)
			}
		}

		client, ok, err := tx.FindClientByPhone(ctx, phone)
		if err != nil {
			return fmt.Errorf("initiator: client lookup: %w", err)
		}
		if !ok {
			client = directory.Client{
				ID:        uuid.NewString(),
				Name:      directory.SentinelClientName,
				Phone:     phone,
				CreatedAt: now,
			}
			if err := tx.InsertClient(ctx, client); err != nil {
				return fmt.Errorf("initiator: client create: %w", err)
			}
		}

		script := telephony.BuildFeedbackScript(client.Name, agent.Name, agent.Brokerage, s.callbackURL)
		doc, err := script.TwiML()
		if err != nil {
			return fmt.Errorf("initiator: script render: %w", err)
		}

		placed, err := s.dialer.PlaceCall(ctx, telephony.PlaceCallRequest{
			To:            phone,
			From:          s.fromNumber,
			VoiceDocument: doc,
		})
		if err != nil {
			return fmt.Errorf("initiator: dial: %w", err)
		}

		call := calls.Call{
			ID:              uuid.NewString(),
			ClientID:        client.ID,
			AgentID:         agent.ID,
			ProviderCallSID: placed.ProviderCallSID,
			CreatedAt:       now,
		}
		if err := tx.InsertCall(ctx, call); err != nil {
			return fmt.Errorf("initiator: call create: %w", err)
		}

		out = Result{
			ProviderCallSID: placed.ProviderCallSID,
			Message:         fmt.Sprintf("Feedback call initiated to %s", phone),
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return out, nil
}
