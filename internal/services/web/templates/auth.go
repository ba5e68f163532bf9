package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// LoginPage renders the passkey login page body.
func LoginPage(loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="auth-card"><h1>`)
		h.text(T(loc, "auth.login.title"))
		h.raw(`</h1><form id="login-form"`)
		h.attr("data-begin", routepath.AuthBeginLogin)
		h.attr("data-finish", routepath.AuthFinishLogin)
		h.raw(`><label for="username">`)
		h.text(T(loc, "auth.username"))
		h.raw(`</label><input id="username" name="username" autocomplete="username webauthn"><button type="submit">`)
		h.text(T(loc, "auth.passkey_login"))
		h.raw(`</button></form><p class="auth-error" id="auth-error" hidden>`)
		h.text(T(loc, "auth.error_invalid"))
		h.raw(`</p><p><a href="`)
		h.text(routepath.Register)
		h.raw(`">`)
		h.text(T(loc, "auth.register.title"))
		h.raw("</a></p>")
		h.raw(passkeyLoginScript)
		h.raw("</section>")
		return h.err
	})
}

// RegisterPage renders the account registration page body.
func RegisterPage(loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="auth-card"><h1>`)
		h.text(T(loc, "auth.register.title"))
		h.raw(`</h1><form id="register-form"`)
		h.attr("data-register", routepath.Register)
		h.attr("data-begin", routepath.AuthBeginRegister)
		h.attr("data-finish", routepath.AuthFinishRegister)
		h.raw(`><label for="username">`)
		h.text(T(loc, "auth.username"))
		h.raw(`</label><input id="username" name="username" required><label for="display_name">`)
		h.text(T(loc, "auth.display_name"))
		h.raw(`</label><input id="display_name" name="display_name"><button type="submit">`)
		h.text(T(loc, "auth.passkey_register"))
		h.raw(`</button></form><p class="auth-error" id="auth-error" hidden>`)
		h.text(T(loc, "auth.error_invalid"))
		h.raw("</p>")
		h.raw(passkeyRegisterScript)
		h.raw("</section>")
		return h.err
	})
}

// Ceremony scripts bridge the JSON begin/finish endpoints and the
// browser credential API. Options travel base64url-encoded inside the
// JSON payloads.
const passkeyLoginScript = `<script>
(function () {
  var form = document.getElementById("login-form");
  if (!form || !navigator.credentials) return;
  form.addEventListener("submit", async function (event) {
    event.preventDefault();
    try {
      var begin = await postJSON(form.dataset.begin, { username: form.username.value });
      var options = parseRequestOptions(begin.options);
      var credential = await navigator.credentials.get({ publicKey: options });
      var finish = await postJSON(form.dataset.finish, {
        session_id: begin.session_id,
        credential: encodeAssertion(credential),
      });
      window.location = finish.redirect || "/app/colecoes";
    } catch (err) {
      document.getElementById("auth-error").hidden = false;
    }
  });
})();
</script>` + passkeyCodecScript

const passkeyRegisterScript = `<script>
(function () {
  var form = document.getElementById("register-form");
  if (!form || !navigator.credentials) return;
  form.addEventListener("submit", async function (event) {
    event.preventDefault();
    try {
      var account = await postJSON(form.dataset.register, {
        username: form.username.value,
        display_name: form.display_name.value,
      });
      var begin = await postJSON(form.dataset.begin, { user_id: account.user_id });
      var options = parseCreationOptions(begin.options);
      var credential = await navigator.credentials.create({ publicKey: options });
      var finish = await postJSON(form.dataset.finish, {
        session_id: begin.session_id,
        credential: encodeAttestation(credential),
      });
      window.location = finish.redirect || "/app/colecoes";
    } catch (err) {
      document.getElementById("auth-error").hidden = false;
    }
  });
})();
</script>` + passkeyCodecScript

const passkeyCodecScript = `<script>
async function postJSON(url, payload) {
  var res = await fetch(url, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(payload),
  });
  if (!res.ok) throw new Error("request failed");
  return res.json();
}
function b64ToBuf(value) {
  var s = atob(value.replace(/-/g, "+").replace(/_/g, "/"));
  var buf = new Uint8Array(s.length);
  for (var i = 0; i < s.length; i++) buf[i] = s.charCodeAt(i);
  return buf.buffer;
}
function bufToB64(buf) {
  var bytes = new Uint8Array(buf);
  var s = "";
  for (var i = 0; i < bytes.length; i++) s += String.fromCharCode(bytes[i]);
  return btoa(s).replace(/\+/g, "-").replace(/\//g, "_").replace(/=+$/, "");
}
function parseCreationOptions(raw) {
  var options = JSON.parse(atob(raw.replace(/-/g, "+").replace(/_/g, "/"))).publicKey;
  options.challenge = b64ToBuf(options.challenge);
  options.user.id = b64ToBuf(options.user.id);
  (options.excludeCredentials || []).forEach(function (c) { c.id = b64ToBuf(c.id); });
  return options;
}
function parseRequestOptions(raw) {
  var options = JSON.parse(atob(raw.replace(/-/g, "+").replace(/_/g, "/"))).publicKey;
  options.challenge = b64ToBuf(options.challenge);
  (options.allowCredentials || []).forEach(function (c) { c.id = b64ToBuf(c.id); });
  return options;
}
function encodeAttestation(credential) {
  return {
    id: credential.id,
    rawId: bufToB64(credential.rawId),
    type: credential.type,
    response: {
      attestationObject: bufToB64(credential.response.attestationObject),
      clientDataJSON: bufToB64(credential.response.clientDataJSON),
    },
  };
}
function encodeAssertion(credential) {
  return {
    id: credential.id,
    rawId: bufToB64(credential.rawId),
    type: credential.type,
    response: {
      authenticatorData: bufToB64(credential.response.authenticatorData),
      clientDataJSON: bufToB64(credential.response.clientDataJSON),
      signature: bufToB64(credential.response.signature),
      userHandle: credential.response.userHandle ? bufToB64(credential.response.userHandle) : null,
    },
  };
}
</script>`
