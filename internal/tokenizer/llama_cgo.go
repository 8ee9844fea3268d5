//go:build llama

package tokenizer

// cgo link directives for the go-llama.cpp tokenizer.
// - rpath of $ORIGIN so the runtime loader finds libllama.so next to the binary.
// - -L${SRCDIR}/../../bin so the linker finds libllama.so at link time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
