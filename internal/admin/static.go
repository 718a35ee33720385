package admin

import "net/http"

const styleCSS = `
body { font-family: system-ui, sans-serif; margin: 0; color: #1f2937; }
header { background: #111827; color: #fff; padding: .6rem 1.25rem; display: flex; gap: 1rem; }
header a { color: #d1d5db; text-decoration: none; }
main { max-width: 70rem; margin: 1.25rem auto; padding: 0 1rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #e5e7eb; text-align: left; padding: .35rem .6rem; }
.badge { background: #e5e7eb; border-radius: .25rem; padding: .1rem .4rem; font-size: .85em; }
form.stack label { display: block; margin-top: .7rem; }
input, textarea, select { width: 100%; max-width: 32rem; padding: .3rem; }
button { margin-top: .7rem; padding: .35rem .9rem; }
.inline { display: inline; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; }
.card { border: 1px solid #e5e7eb; padding: 1rem 1.5rem; min-width: 9rem; }
`

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(styleCSS))
}
