package johndeere

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// WorkPlanAdapter implements ports.WorkPlanAdapter against the platform.
type WorkPlanAdapter struct {
	cfg Config
}

// NewWorkPlanAdapter builds the adapter.
func NewWorkPlanAdapter(cfg Config) *WorkPlanAdapter {
	return &WorkPlanAdapter{cfg: cfg.withDefaults()}
}

// reverseWorkType translates a unified work type back into the provider's
// dti vocabulary for the server-side filter.
func reverseWorkType(t domain.WorkType) string {
	for raw, unified := range workTypeTable {
		if unified == t {
			return raw
		}
	}
	return ""
}

// List fetches the organization's work plans, pushing year and work-type
// filters server-side and applying the field filter client-side (the field
// relation only exists as a link URI).
func (a *WorkPlanAdapter) List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedWorkPlan], error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	q := url.Values{}
	if opts.Year != 0 {
		q.Set("year", strconv.Itoa(opts.Year))
	}
	if opts.WorkType != "" {
		if raw := reverseWorkType(opts.WorkType); raw != "" {
			q.Set("workType", raw)
		}
	}
	listURL := client.resourceURL(fmt.Sprintf("/organizations/%s/workPlans", opts.OrganizationID))
	if len(q) > 0 {
		listURL += "?" + q.Encode()
	}

	values, err := client.getCollection(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("list work plans: %w", err)
	}

	plans := make([]domain.UnifiedWorkPlan, 0, len(values))
	for _, raw := range values {
		var rp rawWorkPlan
		if err := json.Unmarshal(raw, &rp); err != nil {
			return nil, fmt.Errorf("decode work plan: %w", err)
		}
		mapped := mapWorkPlan(rp, opts.OrganizationID)

		if opts.FieldID != "" && mapped.FieldID != opts.FieldID {
			continue
		}
		plans = append(plans, mapped)
	}

	page := domain.Paginate(plans, opts.Page, opts.PageSize)
	return &page, nil
}

// Get fetches one work plan.
func (a *WorkPlanAdapter) Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedWorkPlan, error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	getURL := client.resourceURL(
		fmt.Sprintf("/organizations/%s/workPlans/%s", opts.OrganizationID, opts.ID))

	var raw rawWorkPlan
	if err := client.get(ctx, getURL, &raw); err != nil {
		return nil, fmt.Errorf("get work plan: %w", err)
	}
	plan := mapWorkPlan(raw, opts.OrganizationID)
	return &plan, nil
}
