package viewer

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"go.uber.org/zap"
)

// HostFields describes the machine the renderer runs on, for startup and
// benchmark logs.
func HostFields() []zap.Field {
	return []zap.Field{
		zap.String("cpu", cpuid.CPU.BrandName),
		zap.Int("cores", cpuid.CPU.PhysicalCores),
		zap.Int("threads", cpuid.CPU.LogicalCores),
		zap.Bool("avx2", cpuid.CPU.Supports(cpuid.AVX2)),
		zap.Bool("fma3", cpuid.CPU.Supports(cpuid.FMA3)),
		zap.String("arch", runtime.GOARCH),
		zap.String("go", runtime.Version()),
	}
}
