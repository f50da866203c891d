package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// documentExtensions lists the file types a comparison run will pick up when
// scanning a folder.
var documentExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read the open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to raise the open file limit: %v", err)
	} else {
		fmt.Printf("[*] Open file limit raised to %d\n", rLimit.Cur)
	}
}

// FindDocuments returns all PDF and image files directly inside dir, sorted
// by name so repeated runs see the same order.
func FindDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		for _, ext := range documentExtensions {
			if strings.HasSuffix(name, ext) {
				found = append(found, filepath.Join(dir, e.Name()))
				break
			}
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no documents found in %s", dir)
	}

	sort.Strings(found)
	return found, nil
}

// pageMemoryEstimate is a conservative per-worker footprint: two rendered
// pages at 150 DPI plus the canonical comparison canvases.
const pageMemoryEstimate = 256 << 20

// DefaultWorkers sizes the comparison pool from the host. Each worker holds
// two rendered pages in memory at once, so the count is bounded by available
// RAM as well as CPU.
func DefaultWorkers() int {
	workers := runtime.NumCPU()
	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		workers = counts
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / pageMemoryEstimate)
		if byMemory < 1 {
			byMemory = 1
		}
		if byMemory < workers {
			workers = byMemory
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
