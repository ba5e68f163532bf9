// Package routepath centralizes web route constants.
package routepath

const (
	Root    = "/"
	Healthz = "/healthz"

	Login    = "/login"
	Register = "/register"
	Logout   = "/logout"

	AuthBeginRegister  = "/auth/passkey/register/begin"
	AuthFinishRegister = "/auth/passkey/register/finish"
	AuthBeginLogin     = "/auth/passkey/login/begin"
	AuthFinishLogin    = "/auth/passkey/login/finish"

	Collections       = "/app/colecoes"
	CollectionsPrefix = "/app/colecoes/"

	// Collection route patterns for ServeMux registration.
	CollectionPattern          = "/app/colecoes/{id}"
	CollectionRenamePattern    = "/app/colecoes/{id}/rename"
	CollectionDeletePattern    = "/app/colecoes/{id}/delete"
	CollectionExportPattern    = "/app/colecoes/{id}/export"
	CollectionImportPattern    = "/app/colecoes/{id}/import"
	CollectionSharesPattern    = "/app/colecoes/{id}/shares"
	CollectionRevokePattern    = "/app/colecoes/{id}/shares/{shareID}/revoke"
	CollectionShareLinkPattern = "/app/colecoes/{id}/share-link"
	CollectionParsePattern     = "/app/colecoes/{id}/parse"
	CollectionListingsPattern  = "/app/colecoes/{id}/listings"

	Listings       = "/app/anuncios"
	ListingsPrefix = "/app/anuncios/"

	// Listing route patterns for ServeMux registration.
	ListingPattern          = "/app/anuncios/{id}"
	ListingArchivePattern   = "/app/anuncios/{id}/archive"
	ListingUnarchivePattern = "/app/anuncios/{id}/unarchive"
	ListingDeletePattern    = "/app/anuncios/{id}/delete"
	ListingMovePattern      = "/app/anuncios/{id}/move"

	Claim = "/compartilhado"

	Simulator        = "/simulador"
	SimulatorCompare = "/simulador/comparar"

	Settings             = "/app/ajustes"
	SettingsProfile      = "/app/ajustes/perfil"
	SettingsPlan         = "/app/ajustes/plano"
	SettingsPlanActivate = "/app/ajustes/plano/activate"
	SettingsPlanCancel   = "/app/ajustes/plano/cancel"
)
