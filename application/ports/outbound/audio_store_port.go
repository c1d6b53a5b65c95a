package outbound

import "context"

// AudioStorePort persists synthesized audio to a location the telephony
// provider can fetch over plain HTTP, returning the public URL.
type AudioStorePort interface {
	Save(ctx context.Context, callID string, turnOrdinal int, audio []byte) (string, error)
}
