package middleware

import (
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
)

// XRayMiddleware opens a segment per request unless one is already on the
// context (API Gateway under Lambda provides a facade segment).
func XRayMiddleware(segmentName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if xray.GetSegment(req.Context()) != nil {
				ctx, sub := xray.BeginSubsegment(req.Context(), req.Method+" "+c.Path())
				defer sub.Close(nil)
				c.SetRequest(req.Clone(ctx))
				return next(c)
			}
			ctx, seg := xray.BeginSegment(req.Context(), segmentName)
			defer seg.Close(nil)
			c.SetRequest(req.Clone(ctx))
			err := next(c)
			seg.AddAnnotation("status", c.Response().Status)
			return err
		}
	}
}
