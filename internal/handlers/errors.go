package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

type businessResponse struct {
	status  int
	message string
}

var businessErrors = map[string]businessResponse{
	domain.CodeNotFound:            {http.StatusNotFound, "Registro não encontrado."},
	domain.CodeInvalidService:      {http.StatusBadRequest, "Serviço inválido ou inativo."},
	domain.CodeOutsideAvailability: {http.StatusUnprocessableEntity, "Horário fora da disponibilidade."},
	domain.CodeSlotTaken:           {http.StatusConflict, "Este horário acabou de ser reservado. Escolha outro."},
	domain.CodeInvalidInput:        {http.StatusBadRequest, "Dados inválidos."},
	domain.CodeInvalidTransition:   {http.StatusConflict, "Mudança de status não permitida."},
	domain.CodeStoreUnavailable:    {http.StatusServiceUnavailable, "Serviço temporariamente indisponível. Tente novamente."},
}

// writeBusinessError maps a use case error onto the JSON error body.
func writeBusinessError(c *gin.Context, err error) {
	code := httperr.CodeOf(err)
	if resp, ok := businessErrors[code]; ok {
		httperr.Write(c, resp.status, code, resp.message)
		return
	}
	httperr.Internal(c, "internal_error", "Erro inesperado.")
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, domain.CodeInvalidInput, "Dados inválidos na requisição.")
}
