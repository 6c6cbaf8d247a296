// Package engine собирает конвейер целиком: данные -> статистика ->
// раскладка -> кадры -> ffmpeg -> аудио.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/chart2video/internal/brand"
	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/layout"
	"github.com/ivlev/chart2video/internal/render"
	"github.com/ivlev/chart2video/internal/series"
	"github.com/ivlev/chart2video/internal/source"
	"github.com/ivlev/chart2video/internal/system"
	"github.com/ivlev/chart2video/internal/timeline"
	"github.com/ivlev/chart2video/internal/video"
)

// progressEvery — каждые сколько кадров сообщать прогресс.
const progressEvery = 30

// Hooks — колбэки прогресса для консоли или UI. Оба необязательны.
type Hooks struct {
	Log      func(msg string)
	Progress func(pct int)
}

func (h Hooks) log(format string, args ...interface{}) {
	if h.Log != nil {
		h.Log(fmt.Sprintf(format, args...))
	}
}

func (h Hooks) progress(pct int) {
	if h.Progress != nil {
		h.Progress(pct)
	}
}

// Project — один запуск генератора.
type Project struct {
	Config  *config.Config
	Theme   *config.Theme
	Source  source.Source
	Encoder video.Encoder
	Hooks   Hooks
}

// NewProject собирает проект из готовых компонентов.
func NewProject(cfg *config.Config, th *config.Theme, src source.Source, enc video.Encoder, hooks Hooks) *Project {
	return &Project{
		Config:  cfg,
		Theme:   th,
		Source:  src,
		Encoder: enc,
		Hooks:   hooks,
	}
}

// scene — неизменяемые входы рендеринга, общие для всех воркеров.
type scene struct {
	dense series.DenseSeries
	stats series.Statistics
	plan  timeline.Plan
	vc    *layout.VisualConfig
}

// Run выполняет весь конвейер и возвращает путь к готовому видео.
func (p *Project) Run(ctx context.Context) (string, error) {
	startTime := time.Now()

	// Энкодер проверяем до любой работы: без ffmpeg рендерить нечего
	if err := p.Encoder.Probe(); err != nil {
		return "", err
	}

	p.Hooks.log("Загрузка данных: %s", p.Source.Describe())
	raw, err := p.Source.Load(ctx)
	if err != nil {
		return "", err
	}

	kind := "linear"
	if p.Config.Smooth {
		kind = "spline"
	}
	interp, err := series.NewInterpolator(kind)
	if err != nil {
		return "", err
	}
	dense, err := interp.Resample(raw)
	if err != nil {
		return "", err
	}

	stats, err := series.Extract(dense)
	if err != nil {
		return "", err
	}
	p.Hooks.log("Точек: %d (плотных: %d) | Изменение: %+.1f%%", len(raw), len(dense), stats.PctChange)

	plan := timeline.Build(p.Config.StartIdleSec, p.Config.DrawSec, p.Config.EndIdleSec, p.Config.FPS, len(dense))
	if plan.Total == 0 {
		return "", fmt.Errorf("нулевая длительность видео: проверьте параметры времени")
	}

	mode, err := layout.ParseMode(p.Config.Mode)
	if err != nil {
		return "", err
	}

	hasBadge := p.Config.LogoPath != "" || p.Config.QRContent != ""
	vc, err := layout.Build(layout.BuildInput{
		Theme:        p.Theme,
		Width:        p.Config.Width,
		Height:       p.Config.Height,
		Mode:         mode,
		AssetName:    p.Config.AssetName,
		Year:         dense.First().Time.Year(),
		QuizTitle:    p.Config.QuizTitle,
		QuizSubtitle: p.Config.QuizSubtitle,
		Answer:       p.Config.Answer,
		HasLogo:      hasBadge,
		Stats:        stats,
		Dense:        dense,
	})
	if err != nil {
		return "", err
	}
	if hasBadge {
		badge, err := p.loadBadge(vc.LogoBand)
		if err != nil {
			return "", err
		}
		vc.Logo = badge
	}

	finalPath := p.outputPath(mode, dense)
	if dir := filepath.Dir(finalPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	tempPath := filepath.Join(filepath.Dir(finalPath), "temp_"+filepath.Base(finalPath))

	sink, err := p.Encoder.Open(ctx, video.StreamSpec{
		Path:    tempPath,
		Width:   p.Config.Width,
		Height:  p.Config.Height,
		FPS:     p.Config.FPS,
		Bitrate: p.Config.Bitrate,
		Codec:   p.Config.VideoEncoder,
	})
	if err != nil {
		return "", err
	}

	sc := scene{dense: dense, stats: stats, plan: plan, vc: vc}
	renderStart := time.Now()
	if err := p.renderFrames(ctx, sc, sink); err != nil {
		sink.Close()
		os.Remove(tempPath)
		return "", err
	}
	renderDur := time.Since(renderStart)

	encodeStart := time.Now()
	if err := sink.Close(); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	p.Hooks.log("Rendering frame %d/%d (100%%)...", plan.Total, plan.Total)
	p.Hooks.progress(100)

	if err := p.attachAudio(ctx, tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	encodeDur := time.Since(encodeStart)

	if p.Config.ShowStats {
		p.writeStats(plan.Total, time.Since(startTime), renderDur, encodeDur)
	}
	return finalPath, nil
}

// loadBadge готовит бренд-зону: логотип с диска или QR-код точно под
// размер зоны.
func (p *Project) loadBadge(band image.Rectangle) (image.Image, error) {
	if p.Config.LogoPath != "" {
		img, err := brand.Load(p.Config.LogoPath)
		if err != nil {
			return nil, err
		}
		return brand.Fit(img, band.Dx(), band.Dy()), nil
	}
	size := band.Dy()
	if band.Dx() < size {
		size = band.Dx()
	}
	return brand.QR(p.Config.QRContent, size)
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// cleanName оставляет от имени актива только буквы и цифры.
func cleanName(s string) string {
	c := nonAlnum.ReplaceAllString(s, "")
	if c == "" {
		return "chart"
	}
	return c
}

func (p *Project) outputPath(mode layout.Mode, dense series.DenseSeries) string {
	if p.Config.OutputPath != "" {
		return p.Config.OutputPath
	}
	name := cleanName(p.Config.AssetName)
	if mode == layout.ModeQuiz {
		return filepath.Join("videos", name+"_Quiz.mp4")
	}
	return filepath.Join("videos", fmt.Sprintf("%s_%d_Review.mp4", name, dense.First().Time.Year()))
}

// attachAudio сводит фоновую дорожку с видео или просто переименовывает
// беззвучный файл, если дорожки нет.
func (p *Project) attachAudio(ctx context.Context, tempPath, finalPath string) error {
	if !p.Config.UseAudio {
		p.Hooks.log("Аудио отключено, сохраняю без звука")
		return os.Rename(tempPath, finalPath)
	}

	audio := p.Config.AudioPath
	if audio == "" {
		found, err := system.FindLatestAudio("audio")
		if err != nil {
			p.Hooks.log("Аудио не найдено, сохраняю без звука")
			return os.Rename(tempPath, finalPath)
		}
		audio = found
	}

	if dur, err := system.GetAudioDuration(audio); err == nil {
		p.Hooks.log("Аудио: %s (%.1fs)", filepath.Base(audio), dur)
	} else {
		p.Hooks.log("Аудио: %s", filepath.Base(audio))
	}

	if err := p.Encoder.Mux(ctx, tempPath, audio, finalPath); err != nil {
		return err
	}
	return os.Remove(tempPath)
}

func (p *Project) reportProgress(frame, total int) {
	if frame%progressEvery != 0 {
		return
	}
	pct := frame * 100 / total
	p.Hooks.log("Rendering frame %d/%d (%d%%)...", frame, total, pct)
	p.Hooks.progress(pct)
}

type renderedFrame struct {
	index int
	img   *image.RGBA
}

func (p *Project) renderFrames(ctx context.Context, sc scene, sink video.FrameSink) error {
	pool := system.NewFramePool(p.Config.Width, p.Config.Height)
	workers := p.Config.Workers
	if workers > sc.plan.Total {
		workers = sc.plan.Total
	}
	if workers <= 1 {
		return p.renderSequential(ctx, sc, sink, pool)
	}
	return p.renderParallel(ctx, sc, sink, pool, workers)
}

func (p *Project) renderSequential(ctx context.Context, sc scene, sink video.FrameSink, pool *system.FramePool) error {
	painter, err := render.NewPainter(sc.vc, sc.dense, sc.stats)
	if err != nil {
		return err
	}
	for i := 0; i < sc.plan.Total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf := pool.Get()
		painter.Paint(buf, render.Compute(sc.plan, sc.dense, sc.vc, i))
		err := sink.WriteFrame(buf)
		pool.Put(buf)
		if err != nil {
			return fmt.Errorf("ошибка записи кадра %d: %w", i, err)
		}
		p.reportProgress(i, sc.plan.Total)
	}
	return nil
}

// renderParallel считает кадры на нескольких воркерах, но отдает их в
// энкодер строго по порядку номеров. Окно tokens ограничивает число
// кадровых буферов, живущих одновременно.
func (p *Project) renderParallel(ctx context.Context, sc scene, sink video.FrameSink, pool *system.FramePool, workers int) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	window := workers * 2
	jobs := make(chan int)
	results := make(chan renderedFrame, window)
	tokens := make(chan struct{}, window)

	producers, prodCtx := errgroup.WithContext(runCtx)
	producers.Go(func() error {
		defer close(jobs)
		for i := 0; i < sc.plan.Total; i++ {
			select {
			case tokens <- struct{}{}:
			case <-prodCtx.Done():
				return prodCtx.Err()
			}
			select {
			case jobs <- i:
			case <-prodCtx.Done():
				return prodCtx.Err()
			}
		}
		return nil
	})

	// У каждого воркера свой Painter: шрифтовые кэши не потокобезопасны
	renderers, renderCtx := errgroup.WithContext(runCtx)
	for w := 0; w < workers; w++ {
		renderers.Go(func() error {
			painter, err := render.NewPainter(sc.vc, sc.dense, sc.stats)
			if err != nil {
				return err
			}
			for i := range jobs {
				buf := pool.Get()
				painter.Paint(buf, render.Compute(sc.plan, sc.dense, sc.vc, i))
				select {
				case results <- renderedFrame{index: i, img: buf}:
				case <-renderCtx.Done():
					pool.Put(buf)
					return renderCtx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		if err := renderers.Wait(); err != nil {
			cancel()
		}
		close(results)
	}()

	// Запись в вызывающей горутине: держим готовые кадры в pending,
	// пока не придет следующий по номеру
	pending := make(map[int]*image.RGBA, window)
	next := 0
	var failure error
	for fr := range results {
		if failure != nil {
			pool.Put(fr.img)
			continue
		}
		pending[fr.index] = fr.img
		for {
			img, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			err := sink.WriteFrame(img)
			pool.Put(img)
			if err != nil {
				failure = fmt.Errorf("ошибка записи кадра %d: %w", next, err)
				cancel()
				break
			}
			p.reportProgress(next, sc.plan.Total)
			next++
			<-tokens
		}
	}
	for _, img := range pending {
		pool.Put(img)
	}

	if err := renderers.Wait(); err != nil && failure == nil && !errors.Is(err, context.Canceled) {
		failure = err
	}
	if err := producers.Wait(); err != nil && failure == nil && !errors.Is(err, context.Canceled) {
		failure = err
	}
	if failure != nil {
		return failure
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if next != sc.plan.Total {
		return fmt.Errorf("записано %d кадров из %d", next, sc.plan.Total)
	}
	return nil
}

func (p *Project) writeStats(frames int, total, renderDur, encodeDur time.Duration) {
	host := system.HostSummary()
	fps := float64(frames) / total.Seconds()

	fmt.Println("\n--- [PERFORMANCE REPORT] ---")
	fmt.Printf("Host: %s\n", host)
	fmt.Printf("Frames: %d\n", frames)
	fmt.Printf("Total Time: %.2fs\n", total.Seconds())
	fmt.Printf("Rendering (CPU): %.2fs\n", renderDur.Seconds())
	fmt.Printf("Encoding: %.2fs\n", encodeDur.Seconds())
	fmt.Printf("Effective FPS: %.2f\n", fps)
	fmt.Println("----------------------------")

	logEntry := fmt.Sprintf("[%s] Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f | Host: %s\n",
		time.Now().Format("2006-01-02 15:04:05"), frames,
		total.Seconds(), renderDur.Seconds(), encodeDur.Seconds(), fps, host)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Не удалось открыть benchmark.log: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
