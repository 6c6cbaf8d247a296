package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/engine"
	"github.com/ivlev/chart2video/internal/source"
	"github.com/ivlev/chart2video/internal/system"
	"github.com/ivlev/chart2video/internal/video"
)

const buildVersion = "2.1.0"

func main() {
	// Создаем нужные директории, если их нет
	dirs := []string{"input", "audio", "videos"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Путь к файлу данных \"дата цена\" (по умолчанию: самый свежий файл в input/)")
	tickerPtr := flag.String("ticker", "", "Тикер Yahoo Finance (например, NVDA); заменяет -input")
	namePtr := flag.String("name", "", "Отображаемое имя актива (по умолчанию: тикер или имя файла)")
	yearPtr := flag.Int("year", 0, "Год котировок для -ticker (например, 2023)")
	fromPtr := flag.String("from", "", "Начало периода котировок, ГГГГ-ММ-ДД")
	toPtr := flag.String("to", "", "Конец периода котировок, ГГГГ-ММ-ДД")
	modePtr := flag.String("mode", "review", "Режим ролика: review или quiz")
	quizTitlePtr := flag.String("quiz-title", "", "Заголовок квиза (по умолчанию: Can you guess this stock?)")
	quizSubtitlePtr := flag.String("quiz-subtitle", "", "Подзаголовок квиза (по умолчанию: answer in comments)")
	answerPtr := flag.String("answer", "", "Ответ квиза на финальном экране (пусто = без ответа)")
	durationPtr := flag.Float64("duration", 10, "Длительность отрисовки графика (сек)")
	startIdlePtr := flag.Float64("start-idle", 1.0, "Пауза-крючок перед отрисовкой (сек)")
	endIdlePtr := flag.Float64("end-idle", 4.0, "Финальная пауза с результатом (сек)")
	fpsPtr := flag.Int("fps", 30, "FPS")
	widthPtr := flag.Int("width", 1080, "Ширина")
	heightPtr := flag.Int("height", 1920, "Высота")
	bitratePtr := flag.Int("bitrate", 8000, "Битрейт видео (кбит/с)")
	encoderPtr := flag.String("encoder", "", "Кодек ffmpeg (пусто = автоопределение)")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в audio/)")
	noAudioPtr := flag.Bool("no-audio", false, "Не добавлять звуковую дорожку")
	logoPtr := flag.String("logo", "", "Путь к логотипу над графиком")
	qrPtr := flag.String("qr", "", "Содержимое QR-кода над графиком (если нет логотипа)")
	smoothPtr := flag.Bool("smooth", false, "Сгладить график сплайном (прячет форму в квизах)")
	themePtr := flag.String("theme", "", "Путь к YAML-теме оформления")
	dumpThemePtr := flag.String("dump-theme", "", "Сохранить тему по умолчанию в YAML и выйти")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в videos/)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки рендеринга")
	statsPtr := flag.Bool("stats", false, "Печатать отчет о производительности")

	flag.Parse()

	if *dumpThemePtr != "" {
		if err := config.SaveTheme(config.DefaultTheme(), *dumpThemePtr); err != nil {
			log.Fatalf("[-] Не удалось сохранить тему: %v", err)
		}
		fmt.Printf("[+++] Тема сохранена: %s\n", *dumpThemePtr)
		return
	}

	theme := config.DefaultTheme()
	if *themePtr != "" {
		loaded, err := config.LoadTheme(*themePtr)
		if err != nil {
			log.Fatalf("[-] Ошибка темы: %v", err)
		}
		theme = loaded
		fmt.Printf("[*] Тема: %s\n", *themePtr)
	}

	encoderName := *encoderPtr
	if encoderName == "" {
		encoderName = system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
	}

	cfg := &config.Config{
		InputPath:    *inputPtr,
		Ticker:       *tickerPtr,
		AssetName:    *namePtr,
		Mode:         *modePtr,
		QuizTitle:    *quizTitlePtr,
		QuizSubtitle: *quizSubtitlePtr,
		Answer:       *answerPtr,
		DrawSec:      *durationPtr,
		StartIdleSec: *startIdlePtr,
		EndIdleSec:   *endIdlePtr,
		FPS:          *fpsPtr,
		Width:        *widthPtr,
		Height:       *heightPtr,
		Bitrate:      *bitratePtr,
		VideoEncoder: encoderName,
		OutputPath:   *outputPtr,
		Smooth:       *smoothPtr,
		LogoPath:     *logoPtr,
		QRContent:    *qrPtr,
		AudioPath:    *audioPtr,
		UseAudio:     !*noAudioPtr,
		Workers:      *workersPtr,
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	var src source.Source
	if cfg.Ticker != "" {
		from, to, err := resolveRange(*yearPtr, *fromPtr, *toPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		symbol := strings.ToUpper(cfg.Ticker)
		src = &source.YahooSource{Symbol: symbol, From: from, To: to}
		if cfg.AssetName == "" {
			cfg.AssetName = symbol
		}
	} else {
		inputPath := cfg.InputPath
		if inputPath == "" {
			latest, err := system.FindLatestData("input")
			if err != nil {
				log.Fatalf("[-] Ошибка: %v. Положите файл данных в input/", err)
			}
			inputPath = latest
			cfg.InputPath = latest
			fmt.Printf("[*] Выбран файл: %s\n", inputPath)
		}
		src = &source.TextSource{Path: inputPath}
		if cfg.AssetName == "" {
			base := filepath.Base(inputPath)
			nameOnly := strings.TrimSuffix(base, filepath.Ext(base))
			cfg.AssetName = strings.ReplaceAll(nameOnly, "_", " ")
		}
	}

	fmt.Printf("--- [CHART2VIDEO v%s] ---\n", cfg.BuildVersion)
	fmt.Printf("[*] Актив: %s | Режим: %s\n", cfg.AssetName, displayMode(cfg.Mode))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кодек: %s\n", cfg.Width, cfg.Height, cfg.FPS, cfg.VideoEncoder)
	fmt.Printf("[*] Тайминг: %.1fs крючок + %.1fs график + %.1fs финал\n", cfg.StartIdleSec, cfg.DrawSec, cfg.EndIdleSec)
	fmt.Println("-----------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hooks := engine.Hooks{
		Log: func(msg string) { fmt.Printf("[>] %s\n", msg) },
	}
	project := engine.NewProject(cfg, theme, src, video.NewFFmpegEncoder(), hooks)
	outPath, err := project.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Fatalf("[-] Прервано: %v", err)
		}
		log.Fatalf("[-] Ошибка: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", outPath)
}

func displayMode(mode string) string {
	if mode == "" {
		return "review"
	}
	return mode
}

// resolveRange определяет период котировок: явные даты, целый год или
// последние 12 месяцев.
func resolveRange(year int, from, to string) (time.Time, time.Time, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("флаги -from и -to задаются вместе")
		}
		f, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("неверная дата -from: %v", err)
		}
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("неверная дата -to: %v", err)
		}
		if !t.After(f) {
			return time.Time{}, time.Time{}, fmt.Errorf("дата -to должна быть позже -from")
		}
		return f, t, nil
	}
	if year != 0 {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0), nil
	}
	now := time.Now().UTC()
	return now.AddDate(-1, 0, 0), now, nil
}
