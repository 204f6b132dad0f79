package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Regulation is a general note on buying property in Switzerland.
type Regulation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var nationalRegulations = []Regulation{
	{
		Title:       "Lex Koller",
		Description: "Non-residents need a permit to buy residential property.",
	},
	{
		Title:       "Property tax",
		Description: "Annual property tax rates are set by each canton.",
	},
	{
		Title:       "Rent increases",
		Description: "Landlords may only raise rent in line with the reference interest rate.",
	},
}

type RegulationsResponse struct {
	National []Regulation `json:"national"`
	Canton   *CantonNote  `json:"canton,omitempty"`
}

// CantonNote points at the canton whose own rules apply on top of the
// national ones.
type CantonNote struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (h *Handler) GetRegulations(c *gin.Context) {
	resp := RegulationsResponse{National: nationalRegulations}

	if name := c.Query("canton"); name != "" && !strings.EqualFold(name, allCantons) {
		code, ok := h.services.Registry.ResolveCode(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown canton"})
			return
		}
		display, _ := h.services.Registry.NameFor(code, languageCode(c.DefaultQuery("lang", "en")))
		resp.Canton = &CantonNote{
			Code:    code,
			Name:    display,
			Message: "Cantonal rules on property tax, transfer tax and second homes apply in " + display + ".",
		}
	}

	c.JSON(http.StatusOK, resp)
}
