package clientpages

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/lojinha/storefront/internal/service/models/client"
)

// clientService is an interface for the client service layer.
type clientService interface {
	List(ctx context.Context) []client.Client
	GetByID(ctx context.Context, id int64) client.Client
	Create(ctx context.Context, name, phone string) bool
	Update(ctx context.Context, id int64, name, phone string) bool
	Delete(ctx context.Context, id int64) bool
}

// renderer is an interface for the HTML view renderer.
type renderer interface {
	Render(w http.ResponseWriter, name string, data any)
}

var decoder = schema.NewDecoder()

// clientForm carries the client registration form fields, named as the
// templates post them.
type clientForm struct {
	Name  string `schema:"nome"`
	Phone string `schema:"telefone"`
}

type indexPage struct {
	Clients []client.Client
}

type formPage struct {
	Client client.Client
	Erro   string
}

// Index lists all registered clients.
func Index(w http.ResponseWriter, r *http.Request, svc clientService, view renderer) {
	view.Render(w, "clients", indexPage{
		Clients: svc.List(r.Context()),
	})
}

// NewForm shows the registration form, with an error message carried over
// from a failed submit.
func NewForm(w http.ResponseWriter, r *http.Request, view renderer) {
	view.Render(w, "client_new", formPage{
		Erro: r.URL.Query().Get("erro"),
	})
}

// Create registers a client from the submitted form.
func Create(w http.ResponseWriter, r *http.Request, svc clientService) {
	form, err := decodeForm(r)
	if err != nil {
		slog.Error("Failed to decode client form", "error", err)
		redirectWithError(w, r, "/clientes/novo", "Erro ao cadastrar cliente")

		return
	}

	if svc.Create(r.Context(), form.Name, form.Phone) {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)
	} else {
		redirectWithError(w, r, "/clientes/novo", "Erro ao cadastrar cliente")
	}
}

// EditForm shows the edit form for one client.
func EditForm(w http.ResponseWriter, r *http.Request, svc clientService, view renderer) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)

		return
	}

	view.Render(w, "client_edit", formPage{
		Client: svc.GetByID(r.Context(), id),
		Erro:   r.URL.Query().Get("erro"),
	})
}

// Update rewrites a client from the submitted form.
func Update(w http.ResponseWriter, r *http.Request, svc clientService) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)

		return
	}

	form, err := decodeForm(r)
	if err != nil {
		slog.Error("Failed to decode client form", "error", err)
		redirectWithError(w, r, fmt.Sprintf("/clientes/%d/editar", id), "Erro ao alterar cliente")

		return
	}

	if svc.Update(r.Context(), id, form.Name, form.Phone) {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)
	} else {
		redirectWithError(w, r, fmt.Sprintf("/clientes/%d/editar", id), "Erro ao alterar cliente")
	}
}

// Delete removes a client.
func Delete(w http.ResponseWriter, r *http.Request, svc clientService) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)

		return
	}

	if svc.Delete(r.Context(), id) {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)
	} else {
		redirectWithError(w, r, fmt.Sprintf("/clientes/%d/editar", id), "Erro ao excluir cliente")
	}
}

func decodeForm(r *http.Request) (*clientForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	form := &clientForm{}
	if err := decoder.Decode(form, r.PostForm); err != nil {
		return nil, err
	}

	return form, nil
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?erro="+url.QueryEscape(msg), http.StatusSeeOther)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
