package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/m3rciful/tgbots/bots/pdf/internal/pdf"
	"github.com/m3rciful/tgbots/bots/pdf/internal/session"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the parts of tele.Context the handlers touch.
type fakeContext struct {
	tele.Context
	msg   *tele.Message
	store map[string]any
	sent  []any
}

func newContext(msg *tele.Message) *fakeContext {
	msg.Sender = &tele.User{ID: 77}
	msg.Chat = &tele.Chat{ID: 77, Type: tele.ChatPrivate}
	return &fakeContext{msg: msg, store: map[string]any{}}
}

func (f *fakeContext) Message() *tele.Message { return f.msg }
func (f *fakeContext) Sender() *tele.User     { return f.msg.Sender }
func (f *fakeContext) Chat() *tele.Chat       { return f.msg.Chat }
func (f *fakeContext) Update() tele.Update    { return tele.Update{ID: 1, Message: f.msg} }
func (f *fakeContext) Get(key string) any     { return f.store[key] }
func (f *fakeContext) Set(key string, v any)  { f.store[key] = v }

func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Notify(tele.ChatAction) error { return nil }

func (f *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	s, ok := f.sent[len(f.sent)-1].(string)
	if !ok {
		t.Fatalf("last send is %T, not text", f.sent[len(f.sent)-1])
	}
	return s
}

type fakeDownloader struct{ data []byte }

func (d fakeDownloader) File(*tele.File) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(d.data)), nil
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newHandlers(t *testing.T, data []byte, maxImages int) (*Handlers, *session.Store) {
	t.Helper()
	store := session.New(t.TempDir(), maxImages)
	return New(Deps{
		Sessions:   store,
		Options:    pdf.Options{MaxSide: 100, Quality: 80},
		Downloader: fakeDownloader{data: data},
	}), store
}

func TestPhotoThenPDF(t *testing.T) {
	h, store := newHandlers(t, samplePNG(t), 0)

	for i := 1; i <= 2; i++ {
		c := newContext(&tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p"}}})
		if err := h.Photo(c); err != nil {
			t.Fatalf("photo: %v", err)
		}
		if want := "(" + string(rune('0'+i)) + ")"; !strings.Contains(c.lastText(t), want) {
			t.Fatalf("reply %q lacks %q", c.lastText(t), want)
		}
	}
	if store.Count(77) != 2 {
		t.Fatalf("count = %d", store.Count(77))
	}

	c := newContext(&tele.Message{Text: "/pdf"})
	if err := h.onPDF(c); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	doc, ok := c.sent[len(c.sent)-1].(*tele.Document)
	if !ok {
		t.Fatalf("expected a document, got %T", c.sent[len(c.sent)-1])
	}
	if doc.FileName != resultFileName {
		t.Fatalf("file name = %q", doc.FileName)
	}
	if store.Count(77) != 0 {
		t.Fatal("session not cleared after /pdf")
	}

	c = newContext(&tele.Message{Text: "/pdf"})
	if err := h.onPDF(c); err != nil {
		t.Fatal(err)
	}
	if got := c.lastText(t); got != txtNoImages {
		t.Fatalf("empty /pdf reply = %q", got)
	}
}

func TestDocumentIntake(t *testing.T) {
	h, store := newHandlers(t, samplePNG(t), 0)

	c := newContext(&tele.Message{Document: &tele.Document{MIME: "application/zip"}})
	if err := h.Document(c); err != nil {
		t.Fatal(err)
	}
	if c.lastText(t) != txtNotImage || store.Count(77) != 0 {
		t.Fatalf("non-image accepted: %q", c.lastText(t))
	}

	c = newContext(&tele.Message{Document: &tele.Document{MIME: "image/png"}})
	if err := h.Document(c); err != nil {
		t.Fatal(err)
	}
	if store.Count(77) != 1 {
		t.Fatalf("image document not stored: %q", c.lastText(t))
	}
}

func TestUnreadableImage(t *testing.T) {
	h, store := newHandlers(t, []byte("garbage"), 0)
	c := newContext(&tele.Message{Photo: &tele.Photo{}})
	if err := h.Photo(c); err != nil {
		t.Fatal(err)
	}
	if c.lastText(t) != txtNotImage || store.Count(77) != 0 {
		t.Fatalf("garbage accepted: %q", c.lastText(t))
	}
}

func TestLimitAndCancel(t *testing.T) {
	h, store := newHandlers(t, samplePNG(t), 1)
	for i := 0; i < 2; i++ {
		if err := h.Photo(newContext(&tele.Message{Photo: &tele.Photo{}})); err != nil {
			t.Fatal(err)
		}
	}
	if store.Count(77) != 1 {
		t.Fatalf("limit ignored: %d", store.Count(77))
	}

	c := newContext(&tele.Message{Text: "/cancel"})
	if err := h.onCancel(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(t), "1") || store.Count(77) != 0 {
		t.Fatalf("cancel reply %q", c.lastText(t))
	}
}

func TestTooLarge(t *testing.T) {
	h, store := newHandlers(t, samplePNG(t), 0)
	h.deps.MaxFileBytes = 1 << 20
	c := newContext(&tele.Message{Photo: &tele.Photo{File: tele.File{FileSize: 2 << 20}}})
	if err := h.Photo(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(t), "1 MB") || store.Count(77) != 0 {
		t.Fatalf("oversized image accepted: %q", c.lastText(t))
	}
}

func TestRegister(t *testing.T) {
	h, _ := newHandlers(t, nil, 0)
	reg := coretelegram.NewRegistry()
	if err := h.Register(reg); err != nil {
		t.Fatal(err)
	}
	if got := len(reg.ListCommands(true)); got != 3 {
		t.Fatalf("menu has %d commands", got)
	}
}
