// Package video содержит обертку над ffmpeg: поток сырых RGBA-кадров
// через stdin и финальное сведение с аудио.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
)

// ErrEncoderUnavailable — ffmpeg не найден ни в PATH, ни рядом с
// программой.
var ErrEncoderUnavailable = errors.New("ffmpeg not found")

// StreamSpec описывает один видеопоток из сырых кадров.
type StreamSpec struct {
	Path    string
	Width   int
	Height  int
	FPS     int
	Bitrate int    // кбит/с
	Codec   string // имя H.264-энкодера, например libx264
}

// FrameSink принимает готовые кадры строго в порядке показа.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// Encoder — внешний кодировщик видео.
type Encoder interface {
	Probe() error
	Open(ctx context.Context, spec StreamSpec) (FrameSink, error)
	Mux(ctx context.Context, videoPath, audioPath, outPath string) error
}

// FFmpegEncoder гонит кадры в процесс ffmpeg через stdin.
type FFmpegEncoder struct {
	bin string
}

// NewFFmpegEncoder создает кодировщик; бинарник ищется при Probe.
func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{}
}

// Probe находит ffmpeg в PATH или в текущей директории и запоминает
// путь. Вызывается до начала рендеринга, чтобы не считать кадры зря.
func (e *FFmpegEncoder) Probe() error {
	if e.bin != "" {
		return nil
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		e.bin = path
		return nil
	}
	for _, local := range []string{"./ffmpeg", "./ffmpeg.exe"} {
		if _, err := os.Stat(local); err == nil {
			e.bin = local
			return nil
		}
	}
	return fmt.Errorf("%w: установите ffmpeg или положите бинарник рядом с программой", ErrEncoderUnavailable)
}

// Open запускает ffmpeg и возвращает sink для кадров.
func (e *FFmpegEncoder) Open(ctx context.Context, spec StreamSpec) (FrameSink, error) {
	if err := e.Probe(); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, e.bin, buildStreamArgs(spec)...)

	var logBuf bytes.Buffer
	cmd.Stdout = &logBuf
	cmd.Stderr = &logBuf

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return &ffmpegSink{
		cmd:        cmd,
		stdin:      stdin,
		log:        &logBuf,
		frameBytes: spec.Width * spec.Height * 4,
	}, nil
}

func buildStreamArgs(spec StreamSpec) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-framerate", fmt.Sprintf("%d", spec.FPS),
		"-i", "-",
		"-an",
		"-c:v", spec.Codec,
		"-b:v", fmt.Sprintf("%dk", spec.Bitrate),
		"-pix_fmt", "yuv420p",
		spec.Path,
	}
}

// Mux копирует видеопоток и кодирует аудио в AAC, обрезая по короткому
// из двух входов.
func (e *FFmpegEncoder) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	if err := e.Probe(); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, e.bin, muxArgs(videoPath, audioPath, outPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux error: %v, output: %s", err, string(out))
	}
	return nil
}

func muxArgs(videoPath, audioPath, outPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		outPath,
	}
}

type ffmpegSink struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	log        *bytes.Buffer
	frameBytes int
}

// WriteFrame отправляет один кадр как сырой RGBA.
func (s *ffmpegSink) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	// Обычный путь: непрерывный буфер нужного размера
	if img.Stride == b.Dx()*4 && b.Min.X == 0 && b.Min.Y == 0 {
		if len(img.Pix) != s.frameBytes {
			return fmt.Errorf("frame size mismatch: got %d bytes, want %d", len(img.Pix), s.frameBytes)
		}
		_, err := s.stdin.Write(img.Pix)
		return err
	}
	// Нестандартный stride: построчно
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		if _, err := s.stdin.Write(img.Pix[off : off+b.Dx()*4]); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает stdin и дожидается ffmpeg.
func (s *ffmpegSink) Close() error {
	if err := s.stdin.Close(); err != nil {
		s.cmd.Wait()
		return err
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, log: %s", err, s.log.String())
	}
	return nil
}
