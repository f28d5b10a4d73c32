package devserver

import "net/http"

// Routes served next to the destination tree.
const (
	EventsPath  = "/__assetpipe/livereload"
	ClientPath  = "/__assetpipe/livereload.js"
	MetricsPath = "/__assetpipe/metrics"
)

// clientScript reloads the page on "reload" events and swaps matching
// same-origin stylesheets on "css" events.
const clientScript = `(function () {
  if (window.__assetpipe) return;
  window.__assetpipe = true;

  function swap(paths) {
    var links = document.querySelectorAll('link[rel="stylesheet"]');
    for (var i = 0; i < links.length; i++) {
      var url = new URL(links[i].href, location.href);
      if (url.origin !== location.origin) continue;
      if (paths.indexOf(url.pathname.replace(/^\//, "")) < 0) continue;
      url.searchParams.set("assetpipe", Date.now());
      links[i].href = url.toString();
    }
  }

  function connect() {
    var es = new EventSource("` + EventsPath + `");
    es.onmessage = function (e) {
      var msg;
      try { msg = JSON.parse(e.data); } catch (_) { return; }
      if (msg.type === "css") swap(msg.paths || []);
      else if (msg.type === "reload") location.reload();
    };
    es.onerror = function () {
      es.close();
      setTimeout(connect, 1000);
    };
  }

  connect();
})();
`

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(clientScript))
}
