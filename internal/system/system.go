package system

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits raises the open file limit so parallel storyboard
// export does not run out of descriptors.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	}
}

// FindLatestScript returns the most recently modified .txt file in dir.
func FindLatestScript(dir string) (string, error) {
	return findLatest(dir, ".txt")
}

func findLatest(dir string, extensions ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(extensions, ", "))
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Stats is a host and process resource snapshot for the -stats report.
type Stats struct {
	LogicalCPUs int
	TotalMemory uint64
	UsedMemory  uint64
	UsedPercent float64
	ProcessRSS  uint64
	ProcessCPU  float64
	CollectedAt time.Time
}

// CollectStats reads CPU and memory figures for the host and the current process.
func CollectStats(ctx context.Context) (*Stats, error) {
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("cpu counts: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	mi, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("process memory: %w", err)
	}
	// Not available on every platform; zero is fine for the report.
	cpuPercent, _ := proc.CPUPercentWithContext(ctx)

	return &Stats{
		LogicalCPUs: cpus,
		TotalMemory: vm.Total,
		UsedMemory:  vm.Used,
		UsedPercent: vm.UsedPercent,
		ProcessRSS:  mi.RSS,
		ProcessCPU:  cpuPercent,
		CollectedAt: time.Now(),
	}, nil
}

// String formats the stats in the console status style.
func (s *Stats) String() string {
	return fmt.Sprintf("[*] CPU: %d | RAM: %s / %s (%.1f%%) | RSS: %s | CPU процесса: %.1f%%",
		s.LogicalCPUs, humanBytes(s.UsedMemory), humanBytes(s.TotalMemory), s.UsedPercent,
		humanBytes(s.ProcessRSS), s.ProcessCPU)
}

func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
