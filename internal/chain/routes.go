package chain

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Fleet Chain Arbiter</title>
</head>
<body>
    <h1>Registered Transactions</h1>
    <ul id="logs"></ul>
    <script>
        const eventSource = new EventSource('/logs');
        eventSource.onmessage = function(event) {
            const logs = document.getElementById('logs');
            const log = document.createElement('li');
            log.innerHTML = event.data;
            logs.appendChild(log);
        };
    </script>
</body>
</html>`

// TokenData is the /token response: the current encrypted turn token and
// its commitment.
type TokenData struct {
	EncToken  string           `json:"enc_token"`
	TokenHash fleetcore.Digest `json:"token_hash"`
}

type apiHandler struct {
	node *Node
	hub  *Hub
}

// SetupRouter wires the chain's HTTP surface. Logical errors on /chain
// return HTTP 200 with a diagnostic body; only transport-level problems get
// non-200 statuses.
func SetupRouter(node *Node, hub *Hub) *gin.Engine {
	r := gin.Default()

	// CORS — configurable via ALLOWED_ORIGINS, default open for local use.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	h := &apiHandler{node: node, hub: hub}

	r.GET("/", h.handleIndex)
	r.GET("/logs", hub.ServeSSE)
	r.GET("/ws", hub.ServeWS)
	r.POST("/chain", h.handleChain)
	r.GET("/key", h.handleGetRSAKey)
	r.GET("/players", h.handleGetPlayers)
	r.GET("/token", h.handleGetToken)

	return r
}

func (h *apiHandler) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// handleChain accepts a signed action envelope and returns a plain-text
// result. The status is 200 even on logical rejection; the body carries
// the diagnostic.
func (h *apiHandler) handleChain(c *gin.Context) {
	var signed fleetcore.SignedMessage
	if err := c.ShouldBindJSON(&signed); err != nil {
		c.String(http.StatusOK, "Malformed signed message")
		return
	}
	c.String(http.StatusOK, h.node.HandleAction(&signed))
}

// handleGetRSAKey returns the base-64 RSA public key registered for a
// fleet, used by clients to seal turn tokens to it.
func (h *apiHandler) handleGetRSAKey(c *gin.Context) {
	gameID := c.Query("gameid")
	fleetID := c.Query("fleetid")
	if gameID == "" || fleetID == "" {
		c.String(http.StatusOK, "Missing gameid or fleetid")
		return
	}

	var key string
	var found bool
	h.node.Store().View(gameID, func(g *Game) {
		if g == nil {
			return
		}
		if p, ok := g.Players[fleetID]; ok {
			key = p.RSAKey
			found = true
		}
	})
	if !found {
		c.String(http.StatusOK, "Fleet not found")
		return
	}
	c.String(http.StatusOK, key)
}

// handleGetPlayers returns the fleet ids in a game; an unknown game yields
// an empty array.
func (h *apiHandler) handleGetPlayers(c *gin.Context) {
	gameID := c.Query("gameid")
	players := []string{}
	h.node.Store().View(gameID, func(g *Game) {
		if g != nil {
			players = g.PlayerNames()
		}
	})
	c.JSON(http.StatusOK, players)
}

// handleGetToken returns the game's current encrypted turn token and its
// commitment. Only the legitimate holder can decrypt the ciphertext.
func (h *apiHandler) handleGetToken(c *gin.Context) {
	gameID := c.Query("gameid")
	if gameID == "" {
		c.String(http.StatusOK, "Missing gameid")
		return
	}

	var data *TokenData
	var exists bool
	h.node.Store().View(gameID, func(g *Game) {
		if g == nil {
			return
		}
		exists = true
		if g.TurnCommitment != nil {
			data = &TokenData{EncToken: g.EncryptedToken, TokenHash: *g.TurnCommitment}
		}
	})
	switch {
	case !exists:
		c.String(http.StatusOK, "Game not found")
	case data == nil:
		c.String(http.StatusOK, "No token available")
	default:
		c.JSON(http.StatusOK, data)
	}
}
