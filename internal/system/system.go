// Package system — вспомогательные функции вокруг окружения: поиск
// входных файлов, опрос ffmpeg и сведения о машине для отчетов.
package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// FindLatestData возвращает самый свежий файл с котировками в папке.
func FindLatestData(dir string) (string, error) {
	return findLatest(dir, []string{".txt", ".csv", ".tsv"}, "файлов с данными")
}

// FindLatestAudio возвращает самый свежий аудио-файл в папке.
func FindLatestAudio(dir string) (string, error) {
	return findLatest(dir, []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}, "аудио-файлов")
}

func findLatest(dir string, extensions []string, kind string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		match := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				match = true
				break
			}
		}
		if !match {
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
		return "", fmt.Errorf("в папке %s не найдено %s", dir, kind)
	}
	return latestFile, nil
}

// GetAudioDuration спрашивает у ffprobe длительность дорожки в секундах.
func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// GetBestH264Encoder выбирает аппаратный H.264-энкодер, если ffmpeg его
// поддерживает. Приоритеты:
// 1. MacOS (VideoToolbox)
// 2. NVIDIA (NVENC)
// 3. Software (libx264)
func GetBestH264Encoder() string {
	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// HostSummary возвращает краткое описание машины для отчета о
// производительности.
func HostSummary() string {
	var parts []string
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		parts = append(parts, strings.TrimSpace(infos[0].ModelName))
	}
	if n, err := cpu.Counts(true); err == nil {
		parts = append(parts, fmt.Sprintf("%d потоков", n))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("%.1f ГБ RAM", float64(vm.Total)/(1<<30)))
	}
	if len(parts) == 0 {
		return "н/д"
	}
	return strings.Join(parts, ", ")
}
