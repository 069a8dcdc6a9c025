package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type productVM struct {
	ID    int64
	Name  string
	Price string
}

type lineVM struct {
	ProductID int64
	Name      string
	Quantity  int
	Subtotal  string
}

type pageVM struct {
	Products []productVM
	Lines    []lineVM
	Total    string
	Msg      string
}

// Page serves the server-rendered register screen. Every form post
// redirects back to the index.
type Page struct {
	reg    *register.Register
	logger *zap.Logger
}

func NewPage(reg *register.Register, logger *zap.Logger) *Page {
	return &Page{reg: reg, logger: logger}
}

func (p *Page) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := p.reg.Snapshot(ctx)
	if err != nil {
		status, msg := statusFor(err)
		http.Error(w, msg, status)
		return
	}

	vm := pageVM{
		Total: money.Format(snap.Total),
		Msg:   r.URL.Query().Get("msg"),
	}
	for _, pr := range p.reg.Catalog().Products() {
		vm.Products = append(vm.Products, productVM{ID: pr.ID, Name: pr.Name, Price: money.Format(pr.Price)})
	}
	for _, l := range snap.Cart.Lines() {
		vm.Lines = append(vm.Lines, lineVM{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Subtotal:  money.Format(l.Subtotal()),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, vm); err != nil {
		p.logger.Error("render page", zap.Error(err))
	}
}

func (p *Page) Add(w http.ResponseWriter, r *http.Request) {
	p.productAction(w, r, p.reg.AddProduct)
}

func (p *Page) Increment(w http.ResponseWriter, r *http.Request) {
	p.productAction(w, r, p.reg.Increment)
}

func (p *Page) Decrement(w http.ResponseWriter, r *http.Request) {
	p.productAction(w, r, p.reg.RemoveOne)
}

func (p *Page) Pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw := strings.TrimSpace(r.PostForm.Get("amount"))
	if raw == "" {
		raw = "0"
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		redirectHome(w, r, "Jumlah uang tidak valid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := p.reg.Tender(ctx, amount); err != nil {
		_, msg := statusFor(err)
		redirectHome(w, r, msg)
		return
	}
	redirectHome(w, r, "")
}

func (p *Page) productAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int64) (register.Snapshot, error)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	productID, err := strconv.ParseInt(r.PostForm.Get("product_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := action(ctx, productID); err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			http.Error(w, msg, status)
			return
		}
		redirectHome(w, r, msg)
		return
	}
	redirectHome(w, r, "")
}

func redirectHome(w http.ResponseWriter, r *http.Request, msg string) {
	target := "/"
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
