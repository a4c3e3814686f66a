package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"notebin-app/notebin/database"
	"notebin-app/notebin/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Endpoint classes with independent rate budgets.
const (
	RateLimitClassCreate = "create"
	RateLimitClassUpdate = "update"
	RateLimitClassReport = "report"
)

// RateLimitMiddleware enforces a fixed-window limit per caller and endpoint
// class. Counters live in the primary store so every server instance sees
// the same budget. Store failures fail open: losing rate limiting is better
// than losing the endpoint.
func RateLimitMiddleware(db *database.Database, class string, limit int, window time.Duration) gin.HandlerFunc {
	windowSeconds := int64(window.Seconds())

	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		now := time.Now().UTC()
		windowIndex := now.Unix() / windowSeconds
		key := fmt.Sprintf("%s:%s:%d", class, c.ClientIP(), windowIndex)

		counter := models.RateLimitCounter{
			Key:         key,
			Count:       1,
			WindowStart: time.Unix(windowIndex*windowSeconds, 0).UTC(),
		}

		err := db.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).Create(&counter).Error
		if err != nil {
			log.Printf("Rate limit counter update failed for %s: %v", class, err)
			c.Next()
			return
		}

		if err := db.DB.First(&counter, "key = ?", key).Error; err != nil {
			log.Printf("Rate limit counter read failed for %s: %v", class, err)
			c.Next()
			return
		}

		if counter.Count > limit {
			retryAfter := (windowIndex+1)*windowSeconds - now.Unix()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":           "Too many requests, please try again later.",
				"retryAfterSeconds": retryAfter,
			})
			return
		}

		c.Next()
	}
}
