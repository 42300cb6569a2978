// Package http exposes the scheduling engine over a REST API plus one
// websocket endpoint for live notifications. Handlers parse and validate
// input, build a command or query, and hand it to the application layer;
// no business rules live here.
package http

import (
	"errors"
	"net/http"
	"time"

	"tutam/internal/adapters/out/notifier"
	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/application/usecases/queries"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/services"
	"tutam/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	triggerRescheduleHandler commands.TriggerRescheduleCommandHandler
	acceptRouteHandler       commands.AcceptRouteCommandHandler
	startRouteHandler        commands.StartRouteCommandHandler
	cancelRouteHandler       commands.CancelRouteCommandHandler
	advanceRequestHandler    commands.AdvanceRequestCommandHandler
	cancelRequestHandler     commands.CancelRequestCommandHandler
	receivePickupHandler     commands.ReceivePickupCommandHandler
	giveExportItemsHandler   commands.GiveExportItemsCommandHandler
	confirmDeliveryHandler   commands.ConfirmDeliveryCommandHandler
	resolveReportHandler     commands.ResolveReportCommandHandler

	// Query handlers
	pendingRequestsHandler   queries.GetPendingRequestsQueryHandler
	volunteerRoutesHandler   queries.GetVolunteerRoutesQueryHandler
	routeDetailHandler       queries.GetRouteDetailQueryHandler
	stockAvailabilityHandler queries.GetStockAvailabilityQueryHandler

	hub      *notifier.Hub
	upgrader websocket.Upgrader
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	triggerRescheduleHandler commands.TriggerRescheduleCommandHandler,
	acceptRouteHandler commands.AcceptRouteCommandHandler,
	startRouteHandler commands.StartRouteCommandHandler,
	cancelRouteHandler commands.CancelRouteCommandHandler,
	advanceRequestHandler commands.AdvanceRequestCommandHandler,
	cancelRequestHandler commands.CancelRequestCommandHandler,
	receivePickupHandler commands.ReceivePickupCommandHandler,
	giveExportItemsHandler commands.GiveExportItemsCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	resolveReportHandler commands.ResolveReportCommandHandler,
	pendingRequestsHandler queries.GetPendingRequestsQueryHandler,
	volunteerRoutesHandler queries.GetVolunteerRoutesQueryHandler,
	routeDetailHandler queries.GetRouteDetailQueryHandler,
	stockAvailabilityHandler queries.GetStockAvailabilityQueryHandler,
	hub *notifier.Hub,
) *Server {
	return &Server{
		triggerRescheduleHandler: triggerRescheduleHandler,
		acceptRouteHandler:       acceptRouteHandler,
		startRouteHandler:        startRouteHandler,
		cancelRouteHandler:       cancelRouteHandler,
		advanceRequestHandler:    advanceRequestHandler,
		cancelRequestHandler:     cancelRequestHandler,
		receivePickupHandler:     receivePickupHandler,
		giveExportItemsHandler:   giveExportItemsHandler,
		confirmDeliveryHandler:   confirmDeliveryHandler,
		resolveReportHandler:     resolveReportHandler,
		pendingRequestsHandler:   pendingRequestsHandler,
		volunteerRoutesHandler:   volunteerRoutesHandler,
		routeDetailHandler:       routeDetailHandler,
		stockAvailabilityHandler: stockAvailabilityHandler,
		hub:                      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes binds every endpoint on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/scheduling/reschedule", s.TriggerReschedule)

	api.POST("/routes/:routeID/accept", s.AcceptRoute)
	api.POST("/routes/:routeID/start", s.StartRoute)
	api.POST("/routes/:routeID/cancel", s.CancelRoute)
	api.POST("/routes/:routeID/pickup", s.ReceivePickup)
	api.POST("/routes/:routeID/handover", s.GiveExportItems)
	api.POST("/routes/:routeID/confirm", s.ConfirmDelivery)
	api.GET("/routes/:routeID", s.GetRouteDetail)

	api.POST("/requests/:requestID/advance", s.AdvanceRequest)
	api.POST("/requests/:requestID/cancel", s.CancelRequest)
	api.POST("/requests/:requestID/resolve", s.ResolveReport)
	api.GET("/requests/pending", s.GetPendingRequests)

	api.GET("/volunteers/:volunteerID/routes", s.GetVolunteerRoutes)
	api.GET("/stock/availability", s.GetStockAvailability)

	e.GET("/ws", s.Subscribe)
}

// Error is the uniform problem payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TriggerReschedule handles POST /api/v1/scheduling/reschedule - runs one
// scheduling pass for a branch and direction.
func (s *Server) TriggerReschedule(ctx echo.Context) error {
	var body struct {
		BranchID  string  `json:"branch_id"`
		Direction int     `json:"direction"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	branchID, err := kernel.UUIDFromString(body.BranchID)
	if err != nil {
		return badRequest(ctx, "Invalid branch id: "+err.Error())
	}

	location, err := kernel.NewGeoLocation(body.Latitude, body.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid branch location: "+err.Error())
	}

	cmd, err := commands.NewTriggerRescheduleCommand(
		branchID, request.Direction(body.Direction), location)
	if err != nil {
		return badRequest(ctx, "Invalid reschedule data: "+err.Error())
	}

	if err := s.triggerRescheduleHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// AcceptRoute handles POST /api/v1/routes/{routeID}/accept - a volunteer
// claims a pending route.
func (s *Server) AcceptRoute(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		VolunteerID string  `json:"volunteer_id"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	volunteerID, err := kernel.UUIDFromString(body.VolunteerID)
	if err != nil {
		return badRequest(ctx, "Invalid volunteer id: "+err.Error())
	}

	location, err := kernel.NewGeoLocation(body.Latitude, body.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	cmd, err := commands.NewAcceptRouteCommand(volunteerID, routeID, location)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	if err := s.acceptRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// StartRoute handles POST /api/v1/routes/{routeID}/start - the volunteer
// begins driving an accepted route.
func (s *Server) StartRoute(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		VolunteerID string  `json:"volunteer_id"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	volunteerID, err := kernel.UUIDFromString(body.VolunteerID)
	if err != nil {
		return badRequest(ctx, "Invalid volunteer id: "+err.Error())
	}

	location, err := kernel.NewGeoLocation(body.Latitude, body.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	cmd, err := commands.NewStartRouteCommand(volunteerID, routeID, location)
	if err != nil {
		return badRequest(ctx, "Invalid start data: "+err.Error())
	}

	if err := s.startRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelRoute handles POST /api/v1/routes/{routeID}/cancel - the volunteer
// backs out of a route they hold.
func (s *Server) CancelRoute(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		VolunteerID string `json:"volunteer_id"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	volunteerID, err := kernel.UUIDFromString(body.VolunteerID)
	if err != nil {
		return badRequest(ctx, "Invalid volunteer id: "+err.Error())
	}

	cmd, err := commands.NewCancelRouteCommand(volunteerID, routeID)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if err := s.cancelRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReceiptLine is one delivered item position in a pickup confirmation.
type ReceiptLine struct {
	ItemID        string    `json:"item_id"`
	ContributorID string    `json:"contributor_id"`
	CampaignID    *string   `json:"campaign_id,omitempty"`
	Expiration    time.Time `json:"expiration"`
	Quantity      float64   `json:"quantity"`
}

// RequestReceipt groups the receipt lines of one member request.
type RequestReceipt struct {
	RequestID string        `json:"request_id"`
	Lines     []ReceiptLine `json:"lines"`
}

// ReceivePickup handles POST /api/v1/routes/{routeID}/pickup - a branch admin
// confirms what an import route actually delivered, lot by lot.
func (s *Server) ReceivePickup(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		BranchAdminID string           `json:"branch_admin_id"`
		Receipts      []RequestReceipt `json:"receipts"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	branchAdminID, err := kernel.UUIDFromString(body.BranchAdminID)
	if err != nil {
		return badRequest(ctx, "Invalid branch admin id: "+err.Error())
	}

	receipts := make(map[kernel.UUID][]services.ReceiptLine, len(body.Receipts))
	for _, receipt := range body.Receipts {
		requestID, reqErr := kernel.UUIDFromString(receipt.RequestID)
		if reqErr != nil {
			return badRequest(ctx, "Invalid request id: "+reqErr.Error())
		}

		lines := make([]services.ReceiptLine, 0, len(receipt.Lines))
		for _, line := range receipt.Lines {
			domainLine, lineErr := toDomainReceiptLine(line)
			if lineErr != nil {
				return badRequest(ctx, "Invalid receipt line: "+lineErr.Error())
			}
			lines = append(lines, domainLine)
		}
		receipts[requestID] = lines
	}

	cmd, err := commands.NewReceivePickupCommand(branchAdminID, routeID, receipts)
	if err != nil {
		return badRequest(ctx, "Invalid pickup data: "+err.Error())
	}

	if err := s.receivePickupHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GiveExportItems handles POST /api/v1/routes/{routeID}/handover - a branch
// admin releases reserved stock to a departing export route.
func (s *Server) GiveExportItems(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		BranchAdminID string            `json:"branch_admin_id"`
		Note          string            `json:"note"`
		LotNotes      map[string]string `json:"lot_notes"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	branchAdminID, err := kernel.UUIDFromString(body.BranchAdminID)
	if err != nil {
		return badRequest(ctx, "Invalid branch admin id: "+err.Error())
	}

	lotNotes := make(map[kernel.UUID]string, len(body.LotNotes))
	for rawID, lotNote := range body.LotNotes {
		lotID, err := kernel.UUIDFromString(rawID)
		if err != nil {
			return badRequest(ctx, "Invalid lot id: "+err.Error())
		}
		lotNotes[lotID] = lotNote
	}

	cmd, err := commands.NewGiveExportItemsCommand(branchAdminID, routeID, body.Note, lotNotes)
	if err != nil {
		return badRequest(ctx, "Invalid handover data: "+err.Error())
	}

	if err := s.giveExportItemsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ConfirmDelivery handles POST /api/v1/routes/{routeID}/confirm - the
// volunteer confirms the goods reached the aid recipient, with one proof
// image per member request.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	var body struct {
		VolunteerID string            `json:"volunteer_id"`
		ProofImages map[string]string `json:"proof_images"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	volunteerID, err := kernel.UUIDFromString(body.VolunteerID)
	if err != nil {
		return badRequest(ctx, "Invalid volunteer id: "+err.Error())
	}

	proofImages := make(map[kernel.UUID]string, len(body.ProofImages))
	for rawID, url := range body.ProofImages {
		requestID, err := kernel.UUIDFromString(rawID)
		if err != nil {
			return badRequest(ctx, "Invalid request id: "+err.Error())
		}
		proofImages[requestID] = url
	}

	cmd, err := commands.NewConfirmDeliveryCommand(volunteerID, routeID, proofImages)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation data: "+err.Error())
	}

	if err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// AdvanceRequest handles POST /api/v1/requests/{requestID}/advance - steps a
// request one stage along its delivery progression.
func (s *Server) AdvanceRequest(ctx echo.Context) error {
	requestID, err := pathUUID(ctx, "requestID")
	if err != nil {
		return badRequest(ctx, "Invalid request id: "+err.Error())
	}

	var body struct {
		ActorID string `json:"actor_id"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(body.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id: "+err.Error())
	}

	cmd, err := commands.NewAdvanceRequestCommand(actorID, requestID)
	if err != nil {
		return badRequest(ctx, "Invalid advance data: "+err.Error())
	}

	if err := s.advanceRequestHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelRequest handles POST /api/v1/requests/{requestID}/cancel - an
// administrator cancels a request with a mandatory reason.
func (s *Server) CancelRequest(ctx echo.Context) error {
	requestID, err := pathUUID(ctx, "requestID")
	if err != nil {
		return badRequest(ctx, "Invalid request id: "+err.Error())
	}

	var body struct {
		AdminID string `json:"admin_id"`
		Reason  string `json:"reason"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	adminID, err := kernel.UUIDFromString(body.AdminID)
	if err != nil {
		return badRequest(ctx, "Invalid admin id: "+err.Error())
	}

	cmd, err := commands.NewCancelRequestCommand(adminID, requestID, body.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if err := s.cancelRequestHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ResolveReport handles POST /api/v1/requests/{requestID}/resolve - staff
// closes an open problem report by releasing or expiring the request.
func (s *Server) ResolveReport(ctx echo.Context) error {
	requestID, err := pathUUID(ctx, "requestID")
	if err != nil {
		return badRequest(ctx, "Invalid request id: "+err.Error())
	}

	var body struct {
		StaffID string `json:"staff_id"`
		To      string `json:"to"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	staffID, err := kernel.UUIDFromString(body.StaffID)
	if err != nil {
		return badRequest(ctx, "Invalid staff id: "+err.Error())
	}

	var to request.Status
	switch body.To {
	case "Pending":
		to = request.StatusPending
	case "Expired":
		to = request.StatusExpired
	default:
		return badRequest(ctx, "Invalid resolution target: "+body.To)
	}

	cmd, err := commands.NewResolveReportCommand(staffID, requestID, to)
	if err != nil {
		return badRequest(ctx, "Invalid resolve data: "+err.Error())
	}

	if err := s.resolveReportHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandFailed(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// PendingRequest is one backlog row.
type PendingRequest struct {
	ID            string  `json:"id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	VolumePercent float64 `json:"volume_percent"`
}

// GetPendingRequests handles GET /api/v1/requests/pending - lists the
// unscheduled backlog of one branch and direction.
func (s *Server) GetPendingRequests(ctx echo.Context) error {
	branchID, err := kernel.UUIDFromString(ctx.QueryParam("branch_id"))
	if err != nil {
		return badRequest(ctx, "Invalid branch id: "+err.Error())
	}

	direction, err := directionParam(ctx.QueryParam("direction"))
	if err != nil {
		return badRequest(ctx, "Invalid direction: "+err.Error())
	}

	query, err := queries.NewGetPendingRequestsQuery(branchID, direction)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	rows, err := s.pendingRequestsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryFailed(ctx, err)
	}

	response := make([]PendingRequest, len(rows))
	for i, row := range rows {
		response[i] = PendingRequest{
			ID:            row.ID.String(),
			Latitude:      row.Location.Latitude(),
			Longitude:     row.Location.Longitude(),
			VolumePercent: row.VolumePercent,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// VolunteerRoute is one route held by a volunteer.
type VolunteerRoute struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	StartDate   time.Time `json:"start_date"`
	StopCount   int       `json:"stop_count"`
}

// GetVolunteerRoutes handles GET /api/v1/volunteers/{volunteerID}/routes -
// lists the routes a volunteer currently holds.
func (s *Server) GetVolunteerRoutes(ctx echo.Context) error {
	volunteerID, err := pathUUID(ctx, "volunteerID")
	if err != nil {
		return badRequest(ctx, "Invalid volunteer id: "+err.Error())
	}

	query, err := queries.NewGetVolunteerRoutesQuery(volunteerID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	rows, err := s.volunteerRoutesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryFailed(ctx, err)
	}

	response := make([]VolunteerRoute, len(rows))
	for i, row := range rows {
		response[i] = VolunteerRoute{
			ID:          row.ID.String(),
			Status:      row.Status.String(),
			WindowStart: row.WindowStart,
			WindowEnd:   row.WindowEnd,
			StartDate:   row.StartDate,
			StopCount:   row.StopCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RouteStop is one ordered stop in a route detail view.
type RouteStop struct {
	RequestID           string  `json:"request_id"`
	Order               int     `json:"order"`
	Status              string  `json:"status"`
	RequestStatus       string  `json:"request_status"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	TimeToNextSec       int     `json:"time_to_next_sec"`
	DistanceToNextMeter int     `json:"distance_to_next_meter"`
}

// RouteDetail is the full view of one route.
type RouteDetail struct {
	ID          string      `json:"id"`
	BranchID    string      `json:"branch_id"`
	Direction   int         `json:"direction"`
	Status      string      `json:"status"`
	WindowStart time.Time   `json:"window_start"`
	WindowEnd   time.Time   `json:"window_end"`
	StartDate   time.Time   `json:"start_date"`
	Stops       []RouteStop `json:"stops"`
}

// GetRouteDetail handles GET /api/v1/routes/{routeID} - returns the route
// with its ordered stops and travel estimates.
func (s *Server) GetRouteDetail(ctx echo.Context) error {
	routeID, err := pathUUID(ctx, "routeID")
	if err != nil {
		return badRequest(ctx, "Invalid route id: "+err.Error())
	}

	query, err := queries.NewGetRouteDetailQuery(routeID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	detail, err := s.routeDetailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryFailed(ctx, err)
	}

	stops := make([]RouteStop, len(detail.Stops))
	for i, stop := range detail.Stops {
		stops[i] = RouteStop{
			RequestID:           stop.RequestID.String(),
			Order:               stop.Order,
			Status:              stop.Status.String(),
			RequestStatus:       stop.RequestStatus.String(),
			Latitude:            stop.Location.Latitude(),
			Longitude:           stop.Location.Longitude(),
			TimeToNextSec:       stop.TimeToNextSec,
			DistanceToNextMeter: stop.DistanceToNextMeter,
		}
	}

	return ctx.JSON(http.StatusOK, RouteDetail{
		ID:          detail.ID.String(),
		BranchID:    detail.BranchID.String(),
		Direction:   int(detail.Direction),
		Status:      detail.Status.String(),
		WindowStart: detail.WindowStart,
		WindowEnd:   detail.WindowEnd,
		StartDate:   detail.StartDate,
		Stops:       stops,
	})
}

// StockLot is one unexpired lot in an availability view.
type StockLot struct {
	LotID          string    `json:"lot_id"`
	CampaignID     *string   `json:"campaign_id,omitempty"`
	ExpirationDate time.Time `json:"expiration_date"`
	Quantity       float64   `json:"quantity"`
}

// StockAvailability aggregates a branch's holdings of one item.
type StockAvailability struct {
	TotalQuantity float64    `json:"total_quantity"`
	Lots          []StockLot `json:"lots"`
}

// GetStockAvailability handles GET /api/v1/stock/availability - reports the
// unexpired holdings of one item at one branch.
func (s *Server) GetStockAvailability(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.QueryParam("item_id"))
	if err != nil {
		return badRequest(ctx, "Invalid item id: "+err.Error())
	}

	branchID, err := kernel.UUIDFromString(ctx.QueryParam("branch_id"))
	if err != nil {
		return badRequest(ctx, "Invalid branch id: "+err.Error())
	}

	query, err := queries.NewGetStockAvailabilityQuery(itemID, branchID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	availability, err := s.stockAvailabilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryFailed(ctx, err)
	}

	lots := make([]StockLot, len(availability.Lots))
	for i, lot := range availability.Lots {
		var campaignID *string
		if lot.CampaignID != nil {
			id := lot.CampaignID.String()
			campaignID = &id
		}
		lots[i] = StockLot{
			LotID:          lot.LotID.String(),
			CampaignID:     campaignID,
			ExpirationDate: lot.ExpirationDate,
			Quantity:       lot.Quantity,
		}
	}

	return ctx.JSON(http.StatusOK, StockAvailability{
		TotalQuantity: availability.TotalQuantity,
		Lots:          lots,
	})
}

// Subscribe handles GET /ws - upgrades the connection and registers it on the
// notification hub for the given user.
func (s *Server) Subscribe(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.QueryParam("user_id"))
	if err != nil {
		return badRequest(ctx, "Invalid user id: "+err.Error())
	}

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return badRequest(ctx, "Websocket upgrade failed: "+err.Error())
	}

	s.hub.Register(userID.String(), conn)
	return nil
}

func toDomainReceiptLine(line ReceiptLine) (services.ReceiptLine, error) {
	itemID, err := kernel.UUIDFromString(line.ItemID)
	if err != nil {
		return services.ReceiptLine{}, err
	}

	contributorID, err := kernel.UUIDFromString(line.ContributorID)
	if err != nil {
		return services.ReceiptLine{}, err
	}

	var campaignID *kernel.UUID
	if line.CampaignID != nil {
		id, campErr := kernel.UUIDFromString(*line.CampaignID)
		if campErr != nil {
			return services.ReceiptLine{}, campErr
		}
		campaignID = &id
	}

	return services.ReceiptLine{
		ItemID:        itemID,
		ContributorID: contributorID,
		CampaignID:    campaignID,
		Expiration:    line.Expiration,
		Quantity:      line.Quantity,
	}, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func directionParam(raw string) (request.Direction, error) {
	switch raw {
	case "donor_to_branch":
		return request.DonorToBranch, nil
	case "branch_to_aid":
		return request.BranchToAid, nil
	case "branch_to_branch":
		return request.BranchToBranch, nil
	default:
		return request.DirectionUnknown, errs.NewValueIsInvalidError("direction")
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// commandFailed maps an application error to a problem response: a missing
// aggregate is 404, anything else the domain rejected is 409.
func commandFailed(ctx echo.Context, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}
	return ctx.JSON(http.StatusConflict, Error{
		Code:    http.StatusConflict,
		Message: err.Error(),
	})
}

func queryFailed(ctx echo.Context, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: "Failed to execute query",
	})
}
