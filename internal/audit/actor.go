package audit

import "context"

type actorKey struct{}

// Actor 发起请求的用户与来源
type Actor struct {
	UserID    string
	Username  string
	Role      string
	IP        string
	UserAgent string
}

// WithActor 把操作者放入上下文
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom 取出操作者，匿名请求返回零值
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}
