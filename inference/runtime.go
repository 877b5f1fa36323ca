// Package inference - Semantic segmentation inference on ONNX Runtime.
package inference

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// SharedLibEnv overrides the onnxruntime shared library location.
const SharedLibEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

var (
	initOnce sync.Once
	initErr  error
)

// GetSharedLibPath returns the path to the shared library for the current platform.
//
// Returns:
//   - string: The path to the shared library, or "" when the platform is unsupported.
func GetSharedLibPath() string {
	if p := os.Getenv(SharedLibEnv); p != "" {
		return p
	}
	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		return "./third_party/libonnxruntime.1.23.0.dylib"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
	return ""
}

// InitializeRuntime loads the native onnxruntime library once per process.
//
// Returns:
//   - error: An error if the library is missing or fails to initialize.
func InitializeRuntime() error {
	initOnce.Do(func() {
		// Check if the shared library exists before trying to use it.
		libPath := GetSharedLibPath()
		if libPath == "" {
			initErr = fmt.Errorf("no onnxruntime library for %s/%s; set %s", runtime.GOOS, runtime.GOARCH, SharedLibEnv)
			return
		}
		if _, err := os.Stat(libPath); err != nil {
			initErr = fmt.Errorf("ONNX Runtime library not found at %s: %w", libPath, err)
			return
		}

		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			initErr = fmt.Errorf("error initializing ORT environment: %w", err)
		}
	})
	return initErr
}
