package middleware

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const minVersionKey = "config:min_app_version"

// defaultMinVersion используется, если значение не задано ни в Redis,
// ни в переменной окружения MIN_APP_VERSION.
const defaultMinVersion = "1.2.0"

// AppVersionGate блокирует устаревшие версии мобильного приложения.
// Клиент передает версию в заголовке App-Version; запросы без заголовка
// пропускаются (веб-клиенты и curl его не шлют). Минимальная версия
// читается из Redis, чтобы ее можно было поднять без передеплоя.
func AppVersionGate(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		version := c.GetHeader("App-Version")
		if version == "" {
			c.Next()
			return
		}

		if isVersionOutdated(version, minAppVersion(c.Request.Context(), rdb)) {
			c.JSON(http.StatusUpgradeRequired, gin.H{
				"detail":       "Iltimos, ilovani yangilang. Yangi versiya talab qilinadi.",
				"force_update": true,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// minAppVersion возвращает актуальную минимальную версию приложения
func minAppVersion(ctx context.Context, rdb *redis.Client) string {
	if rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()

		if v, err := rdb.Get(ctx, minVersionKey).Result(); err == nil && v != "" {
			return v
		}
	}

	if v := os.Getenv("MIN_APP_VERSION"); v != "" {
		return v
	}
	return defaultMinVersion
}

// isVersionOutdated сравнивает версии вида "1.2.3" покомпонентно.
// Некорректно указанная версия считается устаревшей, как и в мобильном
// клиенте первых релизов.
func isVersionOutdated(version, minimum string) bool {
	got, err := versionTuple(version)
	if err != nil {
		return true
	}
	min, err := versionTuple(minimum)
	if err != nil {
		return false
	}

	for i := 0; i < len(min); i++ {
		if i >= len(got) {
			return true
		}
		if got[i] != min[i] {
			return got[i] < min[i]
		}
	}
	return false
}

func versionTuple(v string) ([]int, error) {
	parts := strings.Split(v, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}
