package inspector

import "time"

type InspectorBuilderOption func(*Inspector)

// WithPoster sets how commands reach the frame thread. Without a poster commands run on the
// connection goroutine.
func WithPoster(post PosterFunc) InspectorBuilderOption {
	return func(in *Inspector) {
		in.post = post
	}
}

func WithCommandHandler(handle CommandHandler) InspectorBuilderOption {
	return func(in *Inspector) {
		in.handle = handle
	}
}

// WithBroadcastInterval sets how often Run checks for a changed snapshot.
func WithBroadcastInterval(d time.Duration) InspectorBuilderOption {
	return func(in *Inspector) {
		if d > 0 {
			in.interval = d
		}
	}
}
