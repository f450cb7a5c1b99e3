package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/roadsearch/pkg"
	helper "github.com/lintang-b-s/roadsearch/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
	validate       *validator.Validate
	trans          ut.Translator
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &routingAPI{
		routingService: routingService,
		log:            log,
		validate:       validate,
		trans:          trans,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/shortestPath", api.shortestPath)
	group.GET("/computeRoutes", api.computeRoutes)
}

func (api *routingAPI) validateRequest(request any) error {
	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}

func (api *routingAPI) searchMode(mode string) (pkg.SearchMode, error) {
	if mode == "" {
		return api.routingService.DefaultMode(), nil
	}
	return pkg.ParseSearchMode(mode)
}

func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	request.Source, err = strconv.ParseInt(query.Get("source"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("source is required and must be a valid integer"))
		return
	}
	for _, d := range util.SplitTrim(query.Get("destinations"), ",") {
		id, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			api.BadRequestResponse(w, r, fmt.Errorf("destination %q must be a valid integer", d))
			return
		}
		request.Destinations = append(request.Destinations, id)
	}
	request.Mode = strings.ToLower(query.Get("mode"))
	if g := query.Get("geometry"); g != "" {
		request.Geometry, err = strconv.ParseBool(g)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("geometry must be true or false"))
			return
		}
	}
	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	mode, err := api.searchMode(request.Mode)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.routingService.ShortestPath(r.Context(), request.Source, request.Destinations, mode,
		request.Geometry)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponses(results)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request computeRoutesRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}
	request.Mode = strings.ToLower(query.Get("mode"))
	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	mode, err := api.searchMode(request.Mode)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	result, err := api.routingService.ComputeRoute(r.Context(), request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon, mode)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(result)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
