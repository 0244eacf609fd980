package stacktrace

import "testing"

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/paydota/internal/otp/usecase.(*Usecase).SendOTP(0xc000120000)
	/app/internal/otp/usecase/send.go:42 +0x1a5
net/http.HandlerFunc.ServeHTTP(0x0)
	/usr/local/go/src/net/http/server.go:2220 +0x29
`)

	// Act
	got := InternalPaths(stack)

	// Assert
	if len(got) != 1 || got[0] != "internal/otp/usecase/send.go:42" {
		t.Fatalf("InternalPaths() = %v", got)
	}
}

func TestInternalPaths_NoInternalFrames(t *testing.T) {
	got := InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/app/main.go:10 +0x1\n"))
	if len(got) != 0 {
		t.Fatalf("InternalPaths() = %v, want empty", got)
	}
}
