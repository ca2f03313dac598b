package resolver

import (
	"context"

	"github.com/martijn/stockpoint/internal/core/domain"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Notifier shows a message to the operator. Calls are fire-and-forget.
type Notifier interface {
	Notify(title, message string, severity Severity)
}

// ClientStore is the record store the resolver searches and writes through.
type ClientStore interface {
	// SearchClients returns clients whose national ID contains term, in
	// store order.
	SearchClients(ctx context.Context, term string) ([]*domain.Client, error)
	// CreateClient checks for a duplicate national ID and inserts the client
	// as one unit, returning the stored record.
	CreateClient(ctx context.Context, fullName, nationalID string) (*domain.Client, error)
}

// SelectionFunc observes every change of the bound client. nil means none.
type SelectionFunc func(client *domain.Client)

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, Severity) {}
