package middleware

import "context"

type contextKey string

const (
	ctxUserName   contextKey = "user_name"
	ctxIsAdmin    contextKey = "is_admin"
	ctxIsSuperMgr contextKey = "is_super_admin"
)

func UserNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserName).(string); ok {
		return v
	}
	return ""
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

func IsSuperAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsSuperMgr).(bool); ok {
		return v
	}
	return false
}

// WithUserName injects the member name into the context.
func WithUserName(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserName, name)
}

// WithAdmin injects the admin flags into the context for downstream handlers.
func WithAdmin(ctx context.Context, isAdmin, isSuperAdmin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxIsAdmin, isAdmin)
	return context.WithValue(ctx, ctxIsSuperMgr, isSuperAdmin)
}
