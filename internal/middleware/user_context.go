package middleware

import (
	"grc-integrator/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CurrentUserKey = "CurrentUser"

func InjectUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get("user_id").(uint); ok && uid > 0 {
			var user models.User
			if err := db.WithContext(c.Request.Context()).First(&user, uid).Error; err == nil {
				c.Set(CurrentUserKey, user)
			}
		}

		c.Next()
	}
}

// CurrentUserID: id пользователя из контекста запроса, 0 если не залогинен.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(models.User); ok {
			return u.ID
		}
	}
	return 0
}
