package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// LocalsKey is the Fiber locals key the ray id is stored under.
	LocalsKey = "ray_id"
	// HeaderName is the header the ray id is read from and echoed to.
	HeaderName = "X-Ray-ID"
)

// New returns a middleware that assigns every request a ray id.
// An incoming X-Ray-ID header is honoured so ids survive proxy hops;
// otherwise a fresh uuid is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
