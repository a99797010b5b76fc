package providers

import (
	"context"
	"database/sql"
	"sort"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// ScriptProvider defines the interface for different INSERT script generators
type ScriptProvider interface {
	// Name returns the provider name for identification
	Name() string

	// GenerateTable emits one INSERT statement per row of params.Table and
	// returns the query that produced them
	GenerateTable(ctx context.Context, params GenerateParams, emit func(line string) error) (*MetaQuery, error)

	// IsAvailable checks if this provider can be used in the current environment
	IsAvailable() bool
}

// GenerateParams contains parameters needed to generate one table's script
type GenerateParams struct {
	// DB is the database connection (used by SQL-based providers)
	DB *sql.DB

	// ConnectionString is the full connection string (used by external tools)
	ConnectionString string

	// Schema is the schema holding Table
	Schema string

	// Table is the table whose rows are dumped
	Table string
}

// ProviderRegistry manages available script providers
type ProviderRegistry struct {
	providers map[string]ScriptProvider
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ScriptProvider),
	}
}

// DefaultRegistry returns a registry holding the native and pg_dump providers
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register(NewNativeProvider())
	r.Register(NewPgDumpProvider())
	return r
}

// Register adds a provider to the registry
func (r *ProviderRegistry) Register(provider ScriptProvider) {
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *ProviderRegistry) Get(name string) (ScriptProvider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// ListAvailable returns the names of all available providers, sorted
func (r *ProviderRegistry) ListAvailable() []string {
	var available []string
	for name, provider := range r.providers {
		if provider.IsAvailable() {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}
