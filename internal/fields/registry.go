package fields

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-content-bot/records"
)

var ErrPolicyExists = errors.New("fields: policy already registered")

// Content type codes shipped by DefaultRegistry.
const (
	CompanyInfo      = "company-info"
	Product          = "product"
	ProductCategory  = "product-category"
	PortfolioProject = "portfolio-project"
	FAQ              = "faq"
)

// Registry stores field policies keyed by normalized content type code.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

// NewRegistry constructs an empty policy registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]Policy)}
}

// Register validates and stores a policy under its normalized code.
func (r *Registry) Register(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	code := NormalizeCode(policy.ContentType)
	policy.ContentType = code

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[code]; exists {
		return fmt.Errorf("%w: %s", ErrPolicyExists, code)
	}
	r.policies[code] = policy
	return nil
}

// Lookup resolves a policy by content type code.
func (r *Registry) Lookup(contentType string) (Policy, bool) {
	if r == nil {
		return Policy{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.policies[NormalizeCode(contentType)]
	return policy, ok
}

// Codes lists the registered content type codes alphabetically.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.policies))
	for code := range r.policies {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// NormalizeCode maps free-form content type names onto registry keys.
func NormalizeCode(value string) string {
	candidate := strings.ToLower(strings.TrimSpace(value))
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return candidate
	}
	return normalized
}

// DefaultRegistry returns the policies for the company bot content types.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, policy := range DefaultPolicies() {
		if err := registry.Register(policy); err != nil {
			panic(err)
		}
	}
	return registry
}

// DefaultPolicies lists the built-in content type policies.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			ContentType: CompanyInfo,
			Label:       "О компании",
			Fields:      []Field{NameField(), TextField(), MediaField()},
		},
		{
			ContentType: Product,
			Label:       "Продукты",
			Fields:      []Field{NameField(), URLField(), TextField(), MediaField()},
		},
		{
			ContentType: ProductCategory,
			Label:       "Категории продукта",
			Scoped:      true,
			Fields:      []Field{NameField(), URLField(), TextField(), MediaField()},
		},
		{
			ContentType: PortfolioProject,
			Label:       "Портфолио",
			Fields:      []Field{NameField(), URLField(), MediaField()},
		},
		{
			ContentType: FAQ,
			Label:       "Вопросы и ответы",
			Scoped:      true,
			Fields: []Field{
				{Name: records.FieldName, Kind: KindShortText, Prompt: "Введите текст вопроса:"},
				{Name: records.FieldDescription, Kind: KindLongText, Prompt: "Введите ответ на этот вопрос:"},
			},
		},
	}
}
