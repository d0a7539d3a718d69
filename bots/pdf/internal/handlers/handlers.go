// Package handlers serves the image-to-PDF bot.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/tgbots/bots/pdf/internal/pdf"
	"github.com/m3rciful/tgbots/bots/pdf/internal/session"
	"github.com/m3rciful/tgbots/core/logger"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/commands"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const (
	txtStart       = "📷 Send me images, then type /pdf to merge them into one file.\n/cancel discards the images sent so far."
	txtReceived    = "Image received ✅ (%d)"
	txtNoImages    = "You haven't sent any images."
	txtLimit       = "⚠️ This session already holds %d images. Send /pdf or /cancel."
	txtNotImage    = "⚠️ Please send a JPEG, PNG or WebP image."
	txtTooLarge    = "⚠️ The image is larger than %d MB."
	txtCancelled   = "🗑 Discarded %d images."
	txtFailed      = "⚠️ Something went wrong, please try again."
	resultFileName = "images.pdf"
)

// Downloader opens files uploaded to the bot.
type Downloader interface {
	File(f *tele.File) (io.ReadCloser, error)
}

// Deps configures the handlers.
type Deps struct {
	Sessions *session.Store
	Options  pdf.Options
	// MaxFileBytes caps a single image download; 0 disables the check.
	MaxFileBytes int64
	// Downloader defaults to the bot of the update.
	Downloader Downloader
}

// Handlers serves the PDF bot updates.
type Handlers struct {
	deps Deps
}

// New builds the handler set.
func New(d Deps) *Handlers {
	return &Handlers{deps: d}
}

// Register adds the bot commands to reg.
func (h *Handlers) Register(reg *coretelegram.Registry) error {
	cmds := map[string]commands.Command{
		"/start":  {Handler: h.onStart, Description: "How to use the bot"},
		"/pdf":    {Handler: h.onPDF, Description: "Merge the sent images into a PDF"},
		"/cancel": {Handler: h.onCancel, Description: "Discard the sent images"},
	}
	for name, cmd := range cmds {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Photo handles compressed photos.
func (h *Handlers) Photo(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Photo == nil {
		return nil
	}
	return h.intake(c, m.Photo.File)
}

// Document handles images sent as files, which keep their full resolution.
func (h *Handlers) Document(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Document == nil {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(m.Document.MIME), "image/") {
		return tghelpers.SendText(c, txtNotImage)
	}
	return h.intake(c, m.Document.File)
}

// Text answers anything else with the usage hint.
func (h *Handlers) Text(c tele.Context) error {
	return tghelpers.SendText(c, txtStart)
}

func (h *Handlers) onStart(c tele.Context) error {
	return tghelpers.SendText(c, txtStart)
}

func (h *Handlers) downloader(c tele.Context) Downloader {
	if h.deps.Downloader != nil {
		return h.deps.Downloader
	}
	return c.Bot()
}

func (h *Handlers) intake(c tele.Context, f tele.File) error {
	ctx := tghelpers.BuildContext(c)
	limit := h.deps.MaxFileBytes
	if limit > 0 && f.FileSize > limit {
		return tghelpers.SendText(c, fmt.Sprintf(txtTooLarge, limit>>20))
	}

	rc, err := h.downloader(c).File(&f)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	defer rc.Close()
	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit)
	}

	data, err := pdf.Normalize(r, h.deps.Options)
	if errors.Is(err, pdf.ErrUnsupported) {
		return tghelpers.SendText(c, txtNotImage)
	}
	if err != nil {
		return err
	}

	n, err := h.deps.Sessions.Add(c.Sender().ID, data)
	if errors.Is(err, session.ErrLimit) {
		return tghelpers.SendText(c, fmt.Sprintf(txtLimit, n))
	}
	if err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCPDF, slog.LevelDebug, "session.add",
		slog.Int("images", n),
		slog.Int("bytes", len(data)),
	)
	// Ordered with the document reply of a following /pdf.
	return c.Send(fmt.Sprintf(txtReceived, n))
}

func (h *Handlers) onPDF(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	b, err := h.deps.Sessions.Take(c.Sender().ID)
	if errors.Is(err, session.ErrEmpty) {
		return tghelpers.SendText(c, txtNoImages)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Remove(); err != nil {
			logger.LogEvent(ctx, logger.SVCPDF, slog.LevelWarn, "session.cleanup_failed",
				slog.String("err", err.Error()),
			)
		}
	}()

	if len(b.Files) > 3 {
		_ = c.Notify(tele.UploadingDocument)
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := pdf.Build(&buf, b.Files); err != nil {
		logger.LogEvent(ctx, logger.SVCPDF, slog.LevelError, "pdf.build_failed",
			slog.Int("images", len(b.Files)),
			slog.String("err", err.Error()),
		)
		return c.Send(txtFailed)
	}
	logger.LogEvent(ctx, logger.SVCPDF, slog.LevelInfo, "pdf.built",
		slog.Int("images", len(b.Files)),
		slog.Int("bytes", buf.Len()),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	doc := &tele.Document{
		File:     tele.FromReader(&buf),
		FileName: resultFileName,
		MIME:     "application/pdf",
	}
	return c.Send(doc)
}

func (h *Handlers) onCancel(c tele.Context) error {
	n, err := h.deps.Sessions.Cancel(c.Sender().ID)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf(txtCancelled, n))
}
