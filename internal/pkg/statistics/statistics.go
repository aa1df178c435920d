package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/cache"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/database"
)

const (
	CacheKeyUsersTotal        = "statistics:users:total"
	CacheKeyUsersToday        = "statistics:users:today"
	CacheKeySubscribersActive = "statistics:subscribers:active"
	CacheKeyRevenueTotal      = "statistics:revenue:total"
	CacheExpiration           = 30 * time.Minute
)

// DashboardData holds the headline numbers for the admin analytics page.
type DashboardData struct {
	TotalUsers         int
	NewUsersToday      int
	ActiveSubscribers  int
	BasicSubscribers   int
	PremiumSubscribers int
	ActiveLast30Days   int
	TotalOrders        int
	RevenuePaise       int64
	MonthRevenuePaise  int64
	AvgOrderPaise      int64
	ChatMessages       int
}

// MonthlyPoint is one month in a time series, keyed YYYY-MM.
type MonthlyPoint struct {
	Month        string
	Signups      int
	Orders       int
	RevenuePaise int64
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// UpdateCacheIfNeeded refreshes the cached counters when the refresh
// interval has elapsed.
func UpdateCacheIfNeeded() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if time.Since(lastCacheUpdate) <= cacheUpdateInterval {
		return
	}
	if err := UpdateStatisticsCache(); err != nil {
		log.Printf("Error updating statistics cache: %v", err)
		return
	}
	lastCacheUpdate = time.Now()
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded call to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all cached counters from the database.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	todayStart := time.Now().Truncate(24 * time.Hour)
	var newToday int64
	if err := db.Model(&models.User{}).Where("created_at >= ?", todayStart).Count(&newToday).Error; err != nil {
		return err
	}

	var activeSubscribers int64
	if err := db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date > ?", true, time.Now()).
		Count(&activeSubscribers).Error; err != nil {
		return err
	}

	var revenue int64
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsersToday, strconv.FormatInt(newToday, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeySubscribersActive, strconv.FormatInt(activeSubscribers, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyRevenueTotal, strconv.FormatInt(revenue, 10), CacheExpiration)
}

// GetTotalUsers returns the user count from cache, falling back to the
// database and repopulating the cache on a miss.
func GetTotalUsers() int {
	if val, err := cache.Get(CacheKeyUsersTotal); err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return int(count)
		}
	}

	var count int64
	if err := database.GetDB().Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return 0
	}
	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching user count: %v", err)
	}
	return int(count)
}

// GetActiveSubscribers returns the active subscriber count, cache first.
func GetActiveSubscribers() int {
	if val, err := cache.Get(CacheKeySubscribersActive); err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return int(count)
		}
	}

	var count int64
	if err := database.GetDB().Model(&models.Subscription{}).
		Where("is_active = ? AND end_date > ?", true, time.Now()).
		Count(&count).Error; err != nil {
		log.Printf("Error counting subscribers: %v", err)
		return 0
	}
	if err := cache.Set(CacheKeySubscribersActive, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching subscriber count: %v", err)
	}
	return int(count)
}

// GetDashboardData assembles all analytics counters for the admin dashboard.
// Counter queries run directly against the database; the Redis-cached values
// only serve the hot public paths.
func GetDashboardData() (*DashboardData, error) {
	db := database.GetDB()
	data := &DashboardData{}
	now := time.Now()

	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return nil, err
	}
	data.TotalUsers = int(n)

	todayStart := now.Truncate(24 * time.Hour)
	if err := db.Model(&models.User{}).Where("created_at >= ?", todayStart).Count(&n).Error; err != nil {
		return nil, err
	}
	data.NewUsersToday = int(n)

	if err := db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date > ?", true, now).Count(&n).Error; err != nil {
		return nil, err
	}
	data.ActiveSubscribers = int(n)

	if err := db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date > ? AND tier = ?", true, now, models.TierBasic).Count(&n).Error; err != nil {
		return nil, err
	}
	data.BasicSubscribers = int(n)

	if err := db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date > ? AND tier = ?", true, now, models.TierPremium).Count(&n).Error; err != nil {
		return nil, err
	}
	data.PremiumSubscribers = int(n)

	if err := db.Model(&models.User{}).
		Where("last_login_at >= ?", now.AddDate(0, 0, -30)).Count(&n).Error; err != nil {
		return nil, err
	}
	data.ActiveLast30Days = int(n)

	if err := db.Model(&models.Order{}).Count(&n).Error; err != nil {
		return nil, err
	}
	data.TotalOrders = int(n)

	if err := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&data.RevenuePaise).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&data.MonthRevenuePaise).Error; err != nil {
		return nil, err
	}

	var completed int64
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	if completed > 0 {
		data.AvgOrderPaise = data.RevenuePaise / completed
	}

	if err := db.Model(&models.ChatMessage{}).Count(&n).Error; err != nil {
		return nil, err
	}
	data.ChatMessages = int(n)

	return data, nil
}

// GetMonthlySeries returns signups, orders and revenue per month for the
// last `months` months, oldest first.
func GetMonthlySeries(months int) ([]MonthlyPoint, error) {
	if months <= 0 {
		months = 6
	}
	db := database.GetDB()
	now := time.Now()

	series := make([]MonthlyPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		point := MonthlyPoint{Month: monthStart.Format("2006-01")}

		var n int64
		if err := db.Model(&models.User{}).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
			Count(&n).Error; err != nil {
			return nil, err
		}
		point.Signups = int(n)

		if err := db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
			Count(&n).Error; err != nil {
			return nil, err
		}
		point.Orders = int(n)

		if err := db.Model(&models.Order{}).
			Where("status = ? AND created_at >= ? AND created_at < ?", models.OrderStatusCompleted, monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").Scan(&point.RevenuePaise).Error; err != nil {
			return nil, err
		}

		series = append(series, point)
	}
	return series, nil
}
