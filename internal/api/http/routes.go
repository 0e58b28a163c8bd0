package http

import (
	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-papers/internal/auth/middleware"
	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/rbac"
	"github.com/mind-engage/mindengage-papers/internal/session"
	"github.com/mind-engage/mindengage-papers/internal/storage"
)

type Deps struct {
	Auth        *authmw.AuthService
	RequireAuth bool // false: anonymous requests act as the local teacher

	Repo    question.Repository
	Session *session.Session
	Exports *export.Service
	Blobs   storage.BlobStore
	Events  EventLister
}

// Mount wires the login endpoint and the authoring API onto r.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/login", authmw.LoginHandler(d.Auth))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth, d.RequireAuth))

		pr.With(rbac.Require(rbac.PermQuestionsView)).Get("/lessons", ListLessonsHandler(d.Repo))
		pr.With(rbac.Require(rbac.PermQuestionsView)).Get("/outcomes", ListOutcomesHandler(d.Repo))
		pr.With(rbac.Require(rbac.PermQuestionsCreate)).Post("/questions", CreateQuestionHandler(d.Session))

		pr.Route("/bank", func(br chi.Router) {
			br.Use(rbac.Require(rbac.PermBankSelect))
			br.Get("/", GetBankHandler(d.Session))
			br.Post("/scope", SetScopeHandler(d.Session))
			br.Post("/reload", ReloadBankHandler(d.Session))
			br.Put("/filters", StageFiltersHandler(d.Session))
			br.Post("/filters/apply", ApplyFiltersHandler(d.Session))
			br.Post("/filters/reset", ResetFiltersHandler(d.Session))
			br.Put("/sort", SetSortHandler(d.Session))
			br.Post("/selection/toggle/{questionID}", ToggleSelectionHandler(d.Session))
			br.Post("/selection/all", SelectVisibleHandler(d.Session))
			br.Post("/selection/clear", ClearVisibleHandler(d.Session))
			br.Get("/design-guard", DesignGuardHandler(d.Session))
		})

		pr.With(rbac.Require(rbac.PermPaperDesign)).Put("/mode", SetModeHandler(d.Session))
		pr.Route("/paper", func(pp chi.Router) {
			pp.Use(rbac.Require(rbac.PermPaperDesign))
			pp.Get("/", GetPaperHandler(d.Session))
			pp.Put("/metadata", SetMetadataHandler(d.Session))
			pp.Put("/active-section", SetActiveSectionHandler(d.Session))
			pp.Post("/sections", AddSectionHandler(d.Session))
			pp.Post("/sections/reorder", ReorderSectionsHandler(d.Session))
			pp.Patch("/sections/{sectionID}", UpdateSectionHandler(d.Session))
			pp.Delete("/sections/{sectionID}", RemoveSectionHandler(d.Session))
			pp.Post("/sections/{sectionID}/toggle/{questionID}", ToggleInSectionHandler(d.Session))
			pp.Post("/sections/{sectionID}/add-all", AddAllEligibleHandler(d.Session))
			pp.Get("/sections/{sectionID}/eligible", EligiblePoolHandler(d.Session))
			pp.With(rbac.Require(rbac.PermExportsDownload)).Get("/print", PrintHandler(d.Session, d.Exports))
		})

		pr.With(rbac.Require(rbac.PermExportsDownload)).
			Get("/export/{mode}/{format}", ExportHandler(d.Session, d.Exports))
		if d.Blobs != nil {
			pr.Route("/exports", func(er chi.Router) {
				er.Use(rbac.RequireAny(rbac.PermExportsView, rbac.PermExportsAudit))
				MountExports(er, d.Blobs)
			})
		}

		pr.Route("/admin", func(ar chi.Router) {
			ar.With(rbac.Require(rbac.PermQuestionsImport)).
				Post("/questions/bulk", BulkImportQuestionsHandler(d.Repo, d.Session))
			if d.Events != nil {
				ar.With(rbac.Require(rbac.PermExportsAudit)).Get("/exports", ListExportEventsHandler(d.Events))
			}
		})
	})
}
