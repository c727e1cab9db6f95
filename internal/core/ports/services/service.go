package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is used
// throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Registration RegistrationSvcFacade
	Sessions     SessionAccessorSvc
	Admin        IdentityAdminSvc
	Metadata     IdentityMetadataSvc
	IDTokenAuth  IDTokenSignInSvc
	Shadow       CompletionShadowSvc
	GoogleOAuth  GoogleOAuthSvcFacade
	APIToken     APITokenSvc
}
