package service

import (
	"context"

	"schoolhub/internal/model"
)

type MetricsStore interface {
	CountUsersByRole(ctx context.Context, role model.Role) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	SumIncome(ctx context.Context) (float64, error)
	CountUnreadNotifications(ctx context.Context) (int64, error)
	CountUnreadMessages(ctx context.Context) (int64, error)
}

type Dashboard struct {
	store MetricsStore
}

func NewDashboard(store MetricsStore) *Dashboard {
	return &Dashboard{store: store}
}

// Metrics assembles the dashboard summary from independent count and sum
// queries. The aggregate is all-or-nothing: the first failing sub-query
// fails the whole request.
func (d *Dashboard) Metrics(ctx context.Context) (model.DashboardMetrics, error) {
	var metrics model.DashboardMetrics
	var err error

	if metrics.TotalStudents, err = d.store.CountUsersByRole(ctx, model.RoleStudent); err != nil {
		return metrics, err
	}

	metrics.StaffDistribution = make(map[string]int64, len(model.StaffRoles))
	for _, role := range model.StaffRoles {
		count, err := d.store.CountUsersByRole(ctx, role)
		if err != nil {
			return metrics, err
		}
		metrics.StaffDistribution[string(role)] = count
	}

	if metrics.TotalCourses, err = d.store.CountCourses(ctx); err != nil {
		return metrics, err
	}
	if metrics.TotalRevenue, err = d.store.SumIncome(ctx); err != nil {
		return metrics, err
	}
	if metrics.UnreadNotifications, err = d.store.CountUnreadNotifications(ctx); err != nil {
		return metrics, err
	}
	if metrics.UnreadMessages, err = d.store.CountUnreadMessages(ctx); err != nil {
		return metrics, err
	}

	return metrics, nil
}
