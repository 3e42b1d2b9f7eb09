package view

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-stock/internal/audit"
	"github.com/odyssey-erp/odyssey-stock/internal/inventory"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// InventorySource provides the stock listing.
type InventorySource interface {
	Status(ctx context.Context, sess *shared.Session, requested string) (inventory.StatusReport, error)
}

// AuditSource provides the latest audit entries.
type AuditSource interface {
	Recent(ctx context.Context, sess *shared.Session) ([]audit.Entry, error)
}

// DashboardData is the model of the landing page.
type DashboardData struct {
	BranchID    string                  `json:"branch_id"`
	Inventory   inventory.Summary       `json:"inventory"`
	LowStock    []inventory.StockStatus `json:"low_stock"`
	RecentAudit []audit.Entry           `json:"recent_audit,omitempty"`
}

// LowStockLimit caps the low stock list on the dashboard.
const LowStockLimit = 10

// Dashboard loads the landing page sections concurrently.
type Dashboard struct {
	inventory InventorySource
	audit     AuditSource
	logger    *slog.Logger
}

// NewDashboard creates a dashboard loader.
func NewDashboard(inv InventorySource, aud AuditSource, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{inventory: inv, audit: aud, logger: logger}
}

// Load builds the dashboard for sess. The audit section is only loaded for
// roles allowed to read the audit log.
func (d *Dashboard) Load(ctx context.Context, sess *shared.Session) (DashboardData, error) {
	var (
		data   DashboardData
		report inventory.StatusReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = d.inventory.Status(gctx, sess, "")
		return err
	})
	if d.audit != nil && canReadAudit(rbac.ParseRole(sess.Role)) {
		g.Go(func() error {
			entries, err := d.audit.Recent(gctx, sess)
			if err != nil {
				// The dashboard still renders without the audit section.
				d.logger.Warn("dashboard audit", slog.Any("error", err))
				return nil
			}
			data.RecentAudit = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardData{}, err
	}

	data.BranchID = report.BranchID
	data.Inventory = report.Summary
	data.LowStock = lowStock(report.Items)
	return data, nil
}

func canReadAudit(role rbac.Role) bool {
	return role == rbac.RoleAdmin || role == rbac.RoleDirector
}

func lowStock(items []inventory.StockStatus) []inventory.StockStatus {
	out := make([]inventory.StockStatus, 0, LowStockLimit)
	for _, item := range items {
		if item.LowStock {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity-out[i].MinStock < out[j].Quantity-out[j].MinStock
	})
	if len(out) > LowStockLimit {
		out = out[:LowStockLimit]
	}
	return out
}
