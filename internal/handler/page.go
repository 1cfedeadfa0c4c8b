// Package handler contains HTTP request handlers for the item graph application.
//
// Two kinds of handlers live here:
//   - JSON API handlers (ItemHandler, RelationHandler, UserHandler, ReportHandler)
//   - PageHandler, which renders the four HTML views: Data Entry,
//     User Management, Reporting and Relationship Diagram
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (form values, JSON body, URL params)
// 2. Call the service layer
// 3. Write the HTTP response (status code, headers, body)
//
// Handlers should NOT contain business logic; they are the "glue" between HTTP and your app.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/render"
	"github.com/sakif/itemgraph/internal/service"
)

// Services groups the services the pages call.
type Services struct {
	Users     *service.UserService
	Items     *service.ItemService
	Relations *service.RelationService
	Reports   *service.ReportService
}

// Menu entries, in display order. Name is also the template file name.
var pages = []struct {
	Name  string
	Path  string
	Label string
}{
	{"entry", "/entry", "Data Entry"},
	{"users", "/users", "User Management"},
	{"reports", "/reports", "Reporting"},
	{"diagram", "/diagram", "Relationship Diagram"},
}

// PageHandler renders the HTML views.
//
// TEMPLATE SETS:
// Every page file defines {{define "content"}}. If all four were parsed into
// ONE template set, the last file parsed would win and every page would show
// its content. So each page gets its own set: base.html + that page's file.
type PageHandler struct {
	templates map[string]*template.Template
	svc       Services
	logger    *slog.Logger
}

// pageData is passed to every template.
type pageData struct {
	Title  string
	Active string
	Menu   any
	Notice string
	Error  string

	Items  []model.Item
	Users  []model.User
	Roles  []model.Role
	Report []model.ReportRow

	// Form values echoed back after a failed submit.
	Form map[string]string
}

// NewPageHandler parses the templates in templateDir once at startup.
func NewPageHandler(templateDir string, svc Services, logger *slog.Logger) (*PageHandler, error) {
	h := &PageHandler{
		templates: make(map[string]*template.Template, len(pages)),
		svc:       svc,
		logger:    logger,
	}

	for _, p := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, p.Name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s templates: %w", p.Name, err)
		}
		h.templates[p.Name] = tmpl
	}

	return h, nil
}

// render executes the page into a buffer first, so a template error can still
// become a clean 500 instead of a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data pageData) {
	data.Active = page
	data.Menu = pages
	if data.Title == "" {
		for _, p := range pages {
			if p.Name == page {
				data.Title = p.Label
			}
		}
	}

	var buf bytes.Buffer
	if err := h.templates[page].ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError shows a failed action on the page it came from.
func (h *PageHandler) renderError(w http.ResponseWriter, page string, data pageData, err error) {
	status, _, message := classify(err)
	data.Error = message
	h.render(w, status, page, data)
}

// redirect implements Post/Redirect/Get: after a successful form POST the
// browser is sent to a GET, so refreshing the page doesn't submit again.
// 303 See Other always turns the follow-up request into a GET.
func redirect(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// HandleIndex sends / to the first menu entry.
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, pages[0].Path, http.StatusFound)
}

// HandleEntry shows the add-item form and the create-relationship form.
//
// HTTP: GET /entry
func (h *PageHandler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	data := pageData{Notice: r.URL.Query().Get("notice")}
	items, err := h.svc.Items.List(r.Context())
	if err != nil {
		h.renderError(w, "entry", data, err)
		return
	}
	data.Items = items
	h.render(w, http.StatusOK, "entry", data)
}

// entryData reloads the item list for a re-render after a failed POST.
func (h *PageHandler) entryData(r *http.Request, form map[string]string) pageData {
	data := pageData{Form: form}
	if items, err := h.svc.Items.List(r.Context()); err == nil {
		data.Items = items
	}
	return data
}

// HandleAddItem handles the "Add Item" form.
//
// HTTP: POST /entry/items (form fields: name, description)
func (h *PageHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	desc := r.PostFormValue("description")

	item, err := h.svc.Items.Add(r.Context(), name, desc)
	if err != nil {
		h.renderError(w, "entry", h.entryData(r, map[string]string{"name": name, "description": desc}), err)
		return
	}
	redirect(w, r, "/entry", fmt.Sprintf("Added: %s", item.Name))
}

// HandleAddRelation handles the "Create Relationship" form.
//
// HTTP: POST /entry/relations (form fields: source, target)
//
// The <select> options carry item IDs as their values and names as their
// labels, so two items with the same name are still two distinct choices.
func (h *PageHandler) HandleAddRelation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	source := r.PostFormValue("source")
	target := r.PostFormValue("target")

	if _, err := h.svc.Relations.Add(r.Context(), source, target); err != nil {
		h.renderError(w, "entry", h.entryData(r, map[string]string{"source": source, "target": target}), err)
		return
	}

	notice := "Relationship added"
	src, srcErr := h.svc.Items.Get(r.Context(), source)
	dst, dstErr := h.svc.Items.Get(r.Context(), target)
	if srcErr == nil && dstErr == nil {
		notice = fmt.Sprintf("Linked %s → %s", src.Name, dst.Name)
	}
	redirect(w, r, "/entry", notice)
}

// HandleUsers shows the add-user form and the user table.
//
// HTTP: GET /users
func (h *PageHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	data := pageData{Notice: r.URL.Query().Get("notice"), Roles: model.Roles}
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		h.renderError(w, "users", data, err)
		return
	}
	data.Users = users
	h.render(w, http.StatusOK, "users", data)
}

// HandleAddUser handles the "Add User" form.
//
// HTTP: POST /users (form fields: username, role)
func (h *PageHandler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	role := model.Role(r.PostFormValue("role"))

	user, err := h.svc.Users.Add(r.Context(), username, role)
	if err != nil {
		data := pageData{Roles: model.Roles, Form: map[string]string{"username": username, "role": string(role)}}
		if users, listErr := h.svc.Users.List(r.Context()); listErr == nil {
			data.Users = users
		}
		h.renderError(w, "users", data, err)
		return
	}
	redirect(w, r, "/users", fmt.Sprintf("User %s added", user.Username))
}

// HandleReports shows the items overview and the relationships overview.
//
// HTTP: GET /reports
func (h *PageHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	var data pageData

	items, err := h.svc.Items.List(r.Context())
	if err != nil {
		h.renderError(w, "reports", data, err)
		return
	}
	data.Items = items

	rows, err := h.svc.Reports.Report(r.Context())
	if err != nil {
		h.renderError(w, "reports", data, err)
		return
	}
	data.Report = rows
	h.render(w, http.StatusOK, "reports", data)
}

// HandleDiagram shows the page that frames the rendered diagram.
//
// HTTP: GET /diagram
func (h *PageHandler) HandleDiagram(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "diagram", pageData{})
}

// HandleDiagramDocument streams the standalone diagram document.
//
// HTTP: GET /diagram/graph.html
//
// The document is rendered into a buffer first for the same reason as
// render(): a failure must not leave a half-written page behind a 200.
func (h *PageHandler) HandleDiagramDocument(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Reports.Graph(r.Context())
	if err != nil {
		status, _, message := classify(err)
		http.Error(w, message, status)
		return
	}

	var buf bytes.Buffer
	if err := render.Diagram(&buf, g, render.Options{Height: "500px"}); err != nil {
		h.logger.Error("failed to render diagram", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
