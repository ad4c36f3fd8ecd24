package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/request"
	"github.com/trezcool/placement/core/student"
)

const (
	contextProjectKey = "project"
	contextStudentKey = "student"
	contextRequestKey = "request"
)

func requestLoggerMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// paramID parses an integer path parameter; a malformed ID cannot exist, so it is a 404.
func paramID(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// projectMiddleware loads the project of the `:id` path parameter into the context.
func projectMiddleware(svc *project.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := paramID(ctx, "id")
			if err != nil {
				return err
			}
			p, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				return err
			}
			ctx.Set(contextProjectKey, p)
			return next(ctx)
		}
	}
}

func studentMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := paramID(ctx, "id")
			if err != nil {
				return err
			}
			s, err := svc.Get(ctx.Request().Context(), id)
			if err != nil {
				return err
			}
			ctx.Set(contextStudentKey, s)
			return next(ctx)
		}
	}
}

func requestMiddleware(wf *request.Workflow) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := paramID(ctx, "id")
			if err != nil {
				return err
			}
			r, err := wf.Get(ctx.Request().Context(), id)
			if err != nil {
				return err
			}
			ctx.Set(contextRequestKey, r)
			return next(ctx)
		}
	}
}

func contextProject(ctx echo.Context) project.Project {
	p, _ := ctx.Get(contextProjectKey).(project.Project)
	return p
}

func contextStudent(ctx echo.Context) student.Student {
	s, _ := ctx.Get(contextStudentKey).(student.Student)
	return s
}

func contextRequest(ctx echo.Context) request.Request {
	r, _ := ctx.Get(contextRequestKey).(request.Request)
	return r
}
