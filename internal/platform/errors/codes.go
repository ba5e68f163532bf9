package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidRequest marks a malformed or unparseable request.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Listing errors
	CodeListingTitleEmpty        Code = "LISTING_TITLE_EMPTY"
	CodeListingCollectionMissing Code = "LISTING_COLLECTION_MISSING"
	CodeListingInvalidPrice      Code = "LISTING_INVALID_PRICE"
	CodeListingInvalidStatus     Code = "LISTING_INVALID_STATUS"

	// Collection errors
	CodeCollectionNameEmpty    Code = "COLLECTION_NAME_EMPTY"
	CodeCollectionInvalidOwner Code = "COLLECTION_INVALID_OWNER"
	CodeCollectionNotEmpty     Code = "COLLECTION_NOT_EMPTY"

	// Organization errors
	CodeOrgNameEmpty        Code = "ORG_NAME_EMPTY"
	CodeOrgInvalidRole      Code = "ORG_INVALID_ROLE"
	CodeOrgMemberExists     Code = "ORG_MEMBER_EXISTS"
	CodeOrgLastAdminRemoval Code = "ORG_LAST_ADMIN_REMOVAL"

	// Share errors
	CodeShareInvalidRole     Code = "SHARE_INVALID_ROLE"
	CodeShareGranteeMissing  Code = "SHARE_GRANTEE_MISSING"
	CodeShareExists          Code = "SHARE_EXISTS"
	CodeShareGrantInvalid    Code = "SHARE_GRANT_INVALID"
	CodeShareGrantExpired    Code = "SHARE_GRANT_EXPIRED"
	CodeShareGrantMismatch   Code = "SHARE_GRANT_MISMATCH"
	CodeShareSelfGrant       Code = "SHARE_SELF_GRANT"
	CodeAccessDenied         Code = "ACCESS_DENIED"
	CodeAccessEditorRequired Code = "ACCESS_EDITOR_REQUIRED"
	CodeAccessOwnerRequired  Code = "ACCESS_OWNER_REQUIRED"

	// User errors
	CodeUserUsernameEmpty   Code = "USER_USERNAME_EMPTY"
	CodeUserUsernameInvalid Code = "USER_USERNAME_INVALID"
	CodeUserUsernameTaken   Code = "USER_USERNAME_TAKEN"

	// Auth session errors
	CodeAuthSessionInvalid Code = "AUTH_SESSION_INVALID"
	CodeAuthSessionExpired Code = "AUTH_SESSION_EXPIRED"

	// Billing errors
	CodeBillingInvalidPlan       Code = "BILLING_INVALID_PLAN"
	CodeBillingCollectionQuota   Code = "BILLING_COLLECTION_QUOTA_EXCEEDED"
	CodeBillingListingQuota      Code = "BILLING_LISTING_QUOTA_EXCEEDED"
	CodeBillingParseQuota        Code = "BILLING_PARSE_QUOTA_EXCEEDED"
	CodeBillingAlreadySubscribed Code = "BILLING_ALREADY_SUBSCRIBED"
	CodeBillingNotSubscribed     Code = "BILLING_NOT_SUBSCRIBED"

	// AI errors
	CodeAIEmptyText       Code = "AI_EMPTY_TEXT"
	CodeAIUnauthorized    Code = "AI_PROVIDER_UNAUTHORIZED"
	CodeAIRateLimited     Code = "AI_PROVIDER_RATE_LIMITED"
	CodeAIInvalidOutput   Code = "AI_INVALID_OUTPUT"
	CodeAIProviderFailure Code = "AI_PROVIDER_FAILURE"
	CodeAINotConfigured   Code = "AI_NOT_CONFIGURED"

	// Simulator errors
	CodeSimInvalidPrincipal Code = "SIM_INVALID_PRINCIPAL"
	CodeSimInvalidRate      Code = "SIM_INVALID_RATE"
	CodeSimInvalidTerm      Code = "SIM_INVALID_TERM"
	CodeSimInvalidHaircut   Code = "SIM_INVALID_HAIRCUT"
	CodeSimInvalidSaleMonth Code = "SIM_INVALID_SALE_MONTH"
	CodeSimStrategyFailure  Code = "SIM_STRATEGY_FAILURE"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidRequest,
		CodeListingTitleEmpty,
		CodeListingCollectionMissing,
		CodeListingInvalidPrice,
		CodeListingInvalidStatus,
		CodeCollectionNameEmpty,
		CodeCollectionInvalidOwner,
		CodeOrgNameEmpty,
		CodeOrgInvalidRole,
		CodeShareInvalidRole,
		CodeShareGranteeMissing,
		CodeShareSelfGrant,
		CodeUserUsernameEmpty,
		CodeUserUsernameInvalid,
		CodeBillingInvalidPlan,
		CodeAIEmptyText,
		CodeSimInvalidPrincipal,
		CodeSimInvalidRate,
		CodeSimInvalidTerm,
		CodeSimInvalidHaircut,
		CodeSimInvalidSaleMonth,
		CodeSimStrategyFailure:
		return http.StatusBadRequest

	// Conflict - state does not allow the operation
	case CodeCollectionNotEmpty,
		CodeOrgMemberExists,
		CodeOrgLastAdminRemoval,
		CodeShareExists,
		CodeUserUsernameTaken,
		CodeBillingAlreadySubscribed,
		CodeBillingNotSubscribed,
		CodeAlreadyExists:
		return http.StatusConflict

	// Payment required - subscription quota exhausted
	case CodeBillingCollectionQuota,
		CodeBillingListingQuota,
		CodeBillingParseQuota:
		return http.StatusPaymentRequired

	// Unauthorized / forbidden
	case CodeShareGrantInvalid,
		CodeShareGrantExpired,
		CodeShareGrantMismatch,
		CodeAuthSessionInvalid,
		CodeAuthSessionExpired:
		return http.StatusUnauthorized
	case CodeAccessDenied,
		CodeAccessEditorRequired,
		CodeAccessOwnerRequired:
		return http.StatusForbidden

	// Not found
	case CodeNotFound:
		return http.StatusNotFound

	// Upstream AI failures
	case CodeAIUnauthorized,
		CodeAIRateLimited,
		CodeAIProviderFailure,
		CodeAINotConfigured,
		CodeAIInvalidOutput:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
