package domain

import "context"

// SlotPool limita requisições simultâneas.
//
// Acquire espera por uma vaga até ctx terminar. Com ok=true, release devolve
// a vaga; com ok=false, release é um no-op.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
