package app

import (
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// fakeProvider stands in for the WebAuthn relying party so ceremony
// plumbing can be tested without browser-generated signatures.
type fakeProvider struct {
	credentialID    []byte
	loginUserHandle []byte
	beginErr        error
	validateErr     error
}

func (f *fakeProvider) BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	if f.beginErr != nil {
		return nil, nil, f.beginErr
	}
	creation := &protocol.CredentialCreation{}
	session := &webauthn.SessionData{Challenge: "challenge-reg", UserID: user.WebAuthnID()}
	return creation, session, nil
}

func (f *fakeProvider) CreateCredential(_ webauthn.User, _ webauthn.SessionData, _ *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return &webauthn.Credential{ID: f.credentialID}, nil
}

func (f *fakeProvider) BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if f.beginErr != nil {
		return nil, nil, f.beginErr
	}
	assertion := &protocol.CredentialAssertion{}
	session := &webauthn.SessionData{Challenge: "challenge-login", UserID: user.WebAuthnID()}
	return assertion, session, nil
}

func (f *fakeProvider) BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if f.beginErr != nil {
		return nil, nil, f.beginErr
	}
	return &protocol.CredentialAssertion{}, &webauthn.SessionData{Challenge: "challenge-login"}, nil
}

func (f *fakeProvider) ValidatePasskeyLogin(handler webauthn.DiscoverableUserHandler, _ webauthn.SessionData, _ *protocol.ParsedCredentialAssertionData) (webauthn.User, *webauthn.Credential, error) {
	if f.validateErr != nil {
		return nil, nil, f.validateErr
	}
	validated, err := handler(nil, f.loginUserHandle)
	if err != nil {
		return nil, nil, err
	}
	return validated, &webauthn.Credential{ID: f.credentialID}, nil
}

// fakeParser skips CBOR parsing and hands back empty parsed payloads.
type fakeParser struct {
	parseErr error
}

func (f fakeParser) ParseCredentialCreationResponseBytes(_ []byte) (*protocol.ParsedCredentialCreationData, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return &protocol.ParsedCredentialCreationData{}, nil
}

func (f fakeParser) ParseCredentialRequestResponseBytes(_ []byte) (*protocol.ParsedCredentialAssertionData, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return &protocol.ParsedCredentialAssertionData{}, nil
}
