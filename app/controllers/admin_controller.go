package controllers

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/statistics"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

const adminPageSize = 25

// AdminController handles admin-related HTTP requests using repository pattern
type AdminController struct {
	repos *repository.Repositories
	subs  *subscription.Service
}

// NewAdminController creates a new admin controller with repository dependencies
func NewAdminController(repos *repository.Repositories, subs *subscription.Service) *AdminController {
	return &AdminController{
		repos: repos,
		subs:  subs,
	}
}

func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": fmt.Sprintf("%s: %v", message, err),
	}
	return flash.WithError(c, fm).Redirect("/admin")
}

// HandleDashboard renders the admin dashboard.
func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	data, err := statistics.GetDashboardData()
	if err != nil {
		return ac.handleError(c, "Failed to load dashboard data", err)
	}

	adminIDs, err := ac.repos.Admin.ListAdminIDs()
	if err != nil {
		log.Printf("admin id listing failed: %v", err)
	}

	return render(c, "admin/dashboard", fiber.Map{
		"Title":  "Admin | Smart Study AI Solution",
		"Stats":  data,
		"Admins": len(adminIDs),
	})
}

// HandleUsers lists users with their subscription and admin role. A search
// query filters by name, email or phone.
func (ac *AdminController) HandleUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	var (
		users []repository.UserWithSubscription
		err   error
	)
	if query != "" {
		users, err = ac.repos.User.SearchWithSubscriptions(query)
	} else {
		users, err = ac.repos.User.GetWithSubscriptions((page-1)*adminPageSize, adminPageSize)
	}
	if err != nil {
		// A broken listing still renders; the page stays usable for the
		// actions that do work.
		log.Printf("admin user listing failed: %v", err)
		users = nil
	}

	total, err := ac.repos.User.Count()
	if err != nil {
		log.Printf("admin user count failed: %v", err)
		total = 0
	}

	return render(c, "admin/users", fiber.Map{
		"Title": "Users | Admin",
		"Users": users,
		"Query": query,
		"Page":  page,
		"Pages": int((total + adminPageSize - 1) / adminPageSize),
	})
}

// HandleUserEdit shows and updates a single user.
func (ac *AdminController) HandleUserEdit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return ac.handleError(c, "Invalid user id", err)
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		return ac.handleError(c, "User not found", err)
	}

	if c.Method() == fiber.MethodPost {
		user.Name = c.FormValue("name", user.Name)
		status := c.FormValue("status", user.Status)
		switch status {
		case models.STATUS_ACTIVE, models.STATUS_INACTIVE, models.STATUS_DISABLED:
			user.Status = status
		}

		if err := ac.repos.User.Update(user); err != nil {
			return ac.handleError(c, "Failed to update user", err)
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "User updated.",
		}
		return flash.WithSuccess(c, fm).Redirect("/admin/users")
	}

	isAdmin, err := ac.repos.Admin.IsAdmin(user.ID)
	if err != nil {
		return ac.handleError(c, "Failed to load admin role", err)
	}

	orders, err := ac.repos.Order.GetByUserID(user.ID)
	if err != nil {
		return ac.handleError(c, "Failed to load orders", err)
	}

	return render(c, "admin/user_edit", fiber.Map{
		"Title":       "Edit user | Admin",
		"EditUser":    user,
		"EditIsAdmin": isAdmin,
		"Orders":      orders,
	})
}

// HandleUserDelete soft deletes a user. Admins cannot delete themselves.
func (ac *AdminController) HandleUserDelete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return ac.handleError(c, "Invalid user id", err)
	}

	if uint(id) == usercontext.GetUserID(c) {
		fm := fiber.Map{
			"type":    "error",
			"message": "You cannot delete your own account from here.",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if err := ac.repos.User.Delete(uint(id)); err != nil {
		return ac.handleError(c, "Failed to delete user", err)
	}

	if avatarStore != nil {
		if err := avatarStore.DeleteAvatar(c.Context(), uint(id)); err != nil {
			log.Printf("failed to delete avatar for user %d: %v", id, err)
		}
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "User deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleRoleGrant makes a user an admin.
func (ac *AdminController) HandleRoleGrant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return ac.handleError(c, "Invalid user id", err)
	}

	if _, err := ac.repos.User.GetByID(uint(id)); err != nil {
		return ac.handleError(c, "User not found", err)
	}

	if err := ac.repos.Admin.Grant(uint(id)); err != nil {
		return ac.handleError(c, "Failed to grant admin role", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Admin role granted.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleRoleRevoke removes a user's admin role. Revoking your own role is
// blocked so the back office cannot lock itself out.
func (ac *AdminController) HandleRoleRevoke(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return ac.handleError(c, "Invalid user id", err)
	}

	if uint(id) == usercontext.GetUserID(c) {
		fm := fiber.Map{
			"type":    "error",
			"message": "You cannot revoke your own admin role.",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if err := ac.repos.Admin.Revoke(uint(id)); err != nil {
		return ac.handleError(c, "Failed to revoke admin role", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Admin role revoked.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleGrantTier hands a user a subscription tier without a checkout.
func (ac *AdminController) HandleGrantTier(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return ac.handleError(c, "Invalid user id", err)
	}

	tier := c.FormValue("tier")
	until := time.Now().AddDate(1, 0, 0)
	if v := c.FormValue("until"); v != "" {
		if parsed, perr := time.Parse("2006-01-02", v); perr == nil {
			until = parsed
		}
	}

	if _, err := ac.subs.GrantTier(c.Context(), uint(id), tier, until); err != nil {
		return ac.handleError(c, "Failed to grant tier", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Granted %s until %s.", tier, until.Format("2006-01-02")),
	}
	return flash.WithSuccess(c, fm).Redirect(fmt.Sprintf("/admin/users/%d/edit", id))
}

// HandleOrders lists all orders, newest first.
func (ac *AdminController) HandleOrders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	orders, err := ac.repos.Order.List((page-1)*adminPageSize, adminPageSize)
	if err != nil {
		return ac.handleError(c, "Failed to load orders", err)
	}

	total, err := ac.repos.Order.Count()
	if err != nil {
		return ac.handleError(c, "Failed to count orders", err)
	}

	return render(c, "admin/orders", fiber.Map{
		"Title":  "Orders | Admin",
		"Orders": orders,
		"Page":   page,
		"Pages":  int((total + adminPageSize - 1) / adminPageSize),
	})
}

// HandleOrdersExport streams the orders of a date range as CSV.
func (ac *AdminController) HandleOrdersExport(c *fiber.Ctx) error {
	end := time.Now()
	start := end.AddDate(0, -1, 0)
	if v := c.Query("start"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			start = parsed
		}
	}
	if v := c.Query("end"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			end = parsed.AddDate(0, 0, 1)
		}
	}

	orders, err := ac.repos.Order.ListBetween(start, end)
	if err != nil {
		return ac.handleError(c, "Failed to export orders", err)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"order_id", "payment_id", "user_id", "tier", "amount_paise", "currency", "status", "created_at"})
	for _, o := range orders {
		_ = w.Write([]string{
			o.OrderID,
			o.PaymentID,
			strconv.FormatUint(uint64(o.UserID), 10),
			o.Tier,
			strconv.FormatInt(o.Amount, 10),
			o.Currency,
			o.Status,
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ac.handleError(c, "Failed to write CSV", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.SendString(sb.String())
}

// HandleAnalytics renders the analytics page with monthly series.
func (ac *AdminController) HandleAnalytics(c *fiber.Ctx) error {
	months, _ := strconv.Atoi(c.Query("months", "6"))
	series, err := statistics.GetMonthlySeries(months)
	if err != nil {
		return ac.handleError(c, "Failed to load analytics", err)
	}

	data, err := statistics.GetDashboardData()
	if err != nil {
		return ac.handleError(c, "Failed to load analytics", err)
	}

	return render(c, "admin/analytics", fiber.Map{
		"Title":  "Analytics | Admin",
		"Series": series,
		"Stats":  data,
	})
}
