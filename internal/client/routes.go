package client

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetproof/fleet-engine/internal/identity"
	"github.com/fleetproof/fleet-engine/internal/token"
)

const formHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Fleet Command</title>
</head>
<body>
    <h1>Fleet Command</h1>
    <p>Generate keys at <a href="/generate_keys">/generate_keys</a>, then submit actions below.</p>
    <form method="post" action="/submit">
        <fieldset>
            <legend>Identity</legend>
            Dilithium public key: <input type="text" name="pubkey"><br>
            Dilithium private key: <input type="text" name="privkey"><br>
            RSA public key: <input type="text" name="rsa_pubkey"><br>
            RSA private key: <input type="text" name="rsa_privkey"><br>
        </fieldset>
        <fieldset>
            <legend>Game</legend>
            Game ID: <input type="text" name="gameid"><br>
            Fleet ID: <input type="text" name="fleetid"><br>
            Board (comma-separated cells): <input type="text" name="board"><br>
            Random seed: <input type="text" name="random"><br>
        </fieldset>
        <fieldset>
            <legend>Fire</legend>
            Target fleet: <input type="text" name="targetfleet">
            X (A-J): <input type="text" name="x" size="2">
            Y (0-9): <input type="text" name="y" size="2"><br>
        </fieldset>
        <fieldset>
            <legend>Report</legend>
            Outcome: <select name="report"><option></option><option>Hit</option><option>Miss</option></select>
            X (A-J): <input type="text" name="rx" size="2">
            Y (0-9): <input type="text" name="ry" size="2"><br>
        </fieldset>
        <button name="button" value="join">Join</button>
        <button name="button" value="fire">Fire</button>
        <button name="button" value="report">Report</button>
        <button name="button" value="wave">Wave</button>
        <button name="button" value="win">Win</button>
        <button name="button" value="contest">Contest</button>
    </form>
</body>
</html>`

type uiHandler struct {
	builder *Builder
}

// SetupRouter wires the player host's HTTP surface.
func SetupRouter(builder *Builder) *gin.Engine {
	r := gin.Default()
	h := &uiHandler{builder: builder}

	r.GET("/", h.handleIndex)
	r.GET("/generate_keys", h.handleGenerateKeys)
	r.POST("/submit", h.handleSubmit)

	return r
}

func (h *uiHandler) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(formHTML))
}

// handleGenerateKeys mints a Dilithium2 signing pair and an RSA-2048 token
// pair, all base-64 for pasting into the form. Key custody stays with the
// player.
func (h *uiHandler) handleGenerateKeys(c *gin.Context) {
	dPub, dPriv, err := identity.GenerateKeypair()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rsaPriv, rsaPub, err := token.GenerateRSAKeypair()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"d_privkey":   identity.ExportKeyBase64(dPriv),
		"d_pubkey":    identity.ExportKeyBase64(dPub),
		"rsa_privkey": identity.ExportKeyBase64(rsaPriv),
		"rsa_pubkey":  identity.ExportKeyBase64(rsaPub),
	})
}

// handleSubmit dispatches a form submission to the matching action builder
// and shows the result as plain text.
func (h *uiHandler) handleSubmit(c *gin.Context) {
	var form FormData
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusOK, "Malformed form submission")
		return
	}

	var result string
	switch form.Button {
	case "join":
		result = h.builder.Join(form)
	case "fire":
		result = h.builder.Fire(form)
	case "report":
		result = h.builder.Report(form)
	case "wave":
		result = h.builder.Wave(form)
	case "win":
		result = h.builder.Win(form)
	case "contest":
		result = h.builder.Contest(form)
	default:
		result = "Unknown action"
	}
	c.String(http.StatusOK, result)
}
