package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/history"
)

type indexData struct {
	Recent []history.Run
}

type resultData struct {
	ReportLink     string
	ValidatedLink  string
	Discrepancies  int
	OK             int
	NeedsAttention int
}

type errorData struct {
	Message string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Payroll Validator</title>` + pageStyle + `</head>
<body>
<h1>Payroll Validator</h1>
<p>Upload a punch report CSV and the filled payroll timesheet XLSX.</p>
<form method="post" action="/upload" enctype="multipart/form-data">
  <label>Punch CSV <input type="file" name="csv" accept=".csv" required></label>
  <label>Timesheet XLSX <input type="file" name="xlsx" accept=".xlsx" required></label>
  <button type="submit">Validate</button>
</form>
{{if .Recent}}
<h2>Recent runs</h2>
<table>
  <tr><th>When</th><th>Punches</th><th>Timesheet</th><th>Discrepancies</th><th>OK</th><th>Needs attention</th></tr>
  {{range .Recent}}
  <tr>
    <td>{{.RanAt.Format "2006-01-02 15:04"}}</td>
    <td>{{.CSVName}}</td>
    <td>{{.XLSXName}}</td>
    <td>{{.Discrepancies}}</td>
    <td>{{.OK}}</td>
    <td>{{.NeedsAttention}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>`))

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>Validation Result</title>` + pageStyle + `</head>
<body>
<h1>Validation Result</h1>
<ul>
  <li>Discrepancies: {{.Discrepancies}}</li>
  <li>Employees OK: {{.OK}}</li>
  <li>Employees needing attention: {{.NeedsAttention}}</li>
</ul>
<p><a href="{{.ReportLink}}">Download discrepancy report</a></p>
<p><a href="{{.ValidatedLink}}">Download validated timesheet</a></p>
<p><a href="/">Run another validation</a></p>
</body>
</html>`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>Payroll Validator</title>` + pageStyle + `</head>
<body>
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
<p><a href="/">Back</a></p>
</body>
</html>`))

const pageStyle = `<style>
body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; }
label { display: block; margin: 1rem 0; }
button { padding: 0.5rem 1.5rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>`

func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		s.log.Error("render template", zap.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	s.render(w, status, errorTemplate, errorData{Message: message})
}
