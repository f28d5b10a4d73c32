package devserver

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
)

var scriptTag = []byte(`<script src="` + ClientPath + `"></script>`)

// injectClient buffers successful HTML responses and inserts the live-reload
// client before the closing body tag.
func injectClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		iw := &injector{ResponseWriter: w}
		next.ServeHTTP(iw, r)
		iw.finish()
	})
}

type injector struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	// buf is nil unless the response is being rewritten.
	buf *bytes.Buffer
}

func (i *injector) WriteHeader(code int) {
	if i.wroteHeader {
		return
	}
	i.wroteHeader = true
	i.status = code

	if code == http.StatusOK && isHTML(i.Header().Get("Content-Type")) {
		i.buf = &bytes.Buffer{}
		i.Header().Del("Content-Length")
		return
	}
	i.ResponseWriter.WriteHeader(code)
}

func (i *injector) Write(p []byte) (int, error) {
	if !i.wroteHeader {
		i.WriteHeader(http.StatusOK)
	}
	if i.buf != nil {
		return i.buf.Write(p)
	}
	return i.ResponseWriter.Write(p)
}

func (i *injector) finish() {
	if i.buf == nil {
		return
	}
	body := InjectScript(i.buf.Bytes())
	i.Header().Set("Content-Length", strconv.Itoa(len(body)))
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write(body)
}

// InjectScript returns page with the live-reload client tag inserted before
// the last closing body tag, or appended when there is none.
func InjectScript(page []byte) []byte {
	at := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if at < 0 {
		return append(bytes.Clone(page), scriptTag...)
	}
	out := make([]byte, 0, len(page)+len(scriptTag))
	out = append(out, page[:at]...)
	out = append(out, scriptTag...)
	return append(out, page[at:]...)
}

func isHTML(contentType string) bool {
	media, _, err := mime.ParseMediaType(contentType)
	return err == nil && media == "text/html"
}
