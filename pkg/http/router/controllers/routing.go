package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lukman-h/routewise/pkg"
	helper "github.com/lukman-h/routewise/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type plannerAPI struct {
	plannerService PlannerService
	log            *zap.Logger
}

func New(plannerService PlannerService, log *zap.Logger) *plannerAPI {
	return &plannerAPI{
		plannerService: plannerService,
		log:            log,
	}
}

func (api *plannerAPI) Routes(group *helper.RouteGroup) {
	group.POST("/planRoute", api.planRoute)
	group.POST("/compareRoutes", api.compareRoutes)
	group.GET("/algorithms", api.algorithms)
}

func (api *plannerAPI) planRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request planRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	result, err := api.plannerService.PlanRoute(r.Context(), request.Start, request.End,
		pkg.Algorithm(request.Algorithm))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResultResponse(result)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) compareRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request compareRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	report, err := api.plannerService.CompareRoutes(r.Context(), request.Start, request.End)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewComparisonResponse(report)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) algorithms(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": api.plannerService.ListAlgorithms()}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) validateRequest(request interface{}) error {
	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}
