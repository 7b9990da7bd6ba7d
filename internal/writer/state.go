package writer

import "math/rand/v2"

// State is the writer's mutable progress across successive block
// generations: the logical block counter and the once-chosen image
// sequence tag. Design note 9 replaces the original's function-local
// statics with this explicit value, threaded through every
// genBlock call instead of hiding in process-global state.
type State struct {
	// BlkNo is a monotonically increasing logical block counter,
	// advanced exactly once per successful genBlock call. It is not
	// advanced again when a generated buffer is retried on a
	// subsequent PEB after a write failure.
	BlkNo int

	// ImageSeq is chosen once, lazily, on the first UBI block
	// generation: a nonzero 32-bit tag shared by every EC header of
	// one image.
	ImageSeq uint32
}

// imageSeq returns s.ImageSeq, drawing it on first use. The draw is
// repeated until nonzero, mirroring
// original_source/imagewrite.c's `while (!image_seq) image_seq =
// gen_image_seq();` — but seeded by math/rand/v2's automatic,
// process-global source instead of the original's manual
// gettimeofday+getpid seeding, since v2 needs no explicit seed call.
func (s *State) imageSeq() uint32 {
	for s.ImageSeq == 0 {
		s.ImageSeq = rand.Uint32()
	}
	return s.ImageSeq
}
