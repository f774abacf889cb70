package mocks

//go:generate mockgen -destination=./mock_gateway.go -package=mocks github.com/rudder-lab/rudder-trading/internal/exchange Gateway
