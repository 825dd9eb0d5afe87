package live

import (
	"html/template"
	"io"
)

// PageData fills the page shell.
type PageData struct {
	Title string

	// LivePath is the WebSocket endpoint, relative to the page host.
	LivePath string

	// Body is the initial content shown before the socket connects.
	Body template.HTML

	// Stylesheet is an optional stylesheet URL replacing the built-in CSS.
	Stylesheet string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{if .Stylesheet}}<link rel="stylesheet" href="{{.Stylesheet}}">{{else}}<style>
body{font-family:system-ui,sans-serif;max-width:40rem;margin:2rem auto;padding:0 1rem;color:#222}
.quote-container{border:1px solid #ddd;border-radius:6px;padding:1rem;margin:1rem 0}
.quote-loading{color:#888;font-style:italic}
.quote-error{color:#b00020}
.quote-content{font-size:1.2rem;margin:0 0 .5rem}
.quote-author{color:#555}
.quote-author::before{content:"\2014  "}
.quote-button{margin-top:.75rem}
</style>{{end}}
</head>
<body>
<div id="kite-root">{{.Body}}</div>
<script>
(function () {
  var root = document.getElementById("kite-root");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + {{.LivePath}});
  ws.onmessage = function (e) {
    var m = JSON.parse(e.data);
    if (m.type === "render") { root.innerHTML = m.html; }
    else if (m.type === "error") { console.warn("kite:", m.error); }
  };
  ws.onclose = function () { root.setAttribute("data-disconnected", ""); };
  root.addEventListener("click", function (e) {
    var el = e.target.closest("[data-kid]");
    if (!el || el.disabled || ws.readyState !== WebSocket.OPEN) { return; }
    ws.send(JSON.stringify({type: "click", id: Number(el.getAttribute("data-kid"))}));
  });
})();
</script>
</body>
</html>
`))

// WritePage renders the page shell to w.
func WritePage(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "kite"
	}
	if data.LivePath == "" {
		data.LivePath = "/live"
	}
	return pageTemplate.Execute(w, data)
}
