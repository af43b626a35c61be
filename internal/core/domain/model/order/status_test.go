package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every declared status", func(t *testing.T) {
		for _, status := range order.Statuses() {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out of range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(100)} {
			err := status.Validate()

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.Pending, "Pending"},
		{order.Accepted, "Accepted"},
		{order.Packaged, "Packaged"},
		{order.Shipped, "Shipped"},
		{order.InTransit, "In Transit"},
		{order.OutForDelivery, "Out for Delivery"},
		{order.Delivered, "Delivered"},
		{order.Cancelled, "Cancelled"},
		{order.ReturnedToVendor, "Returned to Vendor"},
		{order.Unknown, "Unknown"},
		{order.Status(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestStatusFromString(t *testing.T) {
	for _, status := range order.Statuses() {
		parsed, err := order.StatusFromString(status.String())

		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := order.StatusFromString("Completed")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_StateMachine(t *testing.T) {
	type transition struct {
		name string
		fn   func(order.Status) (order.Status, error)
		from order.Status
		to   order.Status
	}

	transitions := []transition{
		{"cancel", order.Status.Cancel, order.Pending, order.Cancelled},
		{"accept", order.Status.Accept, order.Pending, order.Accepted},
		{"pack", order.Status.Pack, order.Accepted, order.Packaged},
		{"ship", order.Status.Ship, order.Packaged, order.Shipped},
		{"move in transit", order.Status.MoveInTransit, order.Shipped, order.InTransit},
		{"out for delivery", order.Status.SendOutForDelivery, order.InTransit, order.OutForDelivery},
		{"deliver", order.Status.Deliver, order.OutForDelivery, order.Delivered},
		{"initiate return", order.Status.InitiateReturn, order.Delivered, order.InTransit},
		{"complete return", order.Status.CompleteReturn, order.InTransit, order.ReturnedToVendor},
	}

	for _, tr := range transitions {
		t.Run(tr.name, func(t *testing.T) {
			for _, from := range append(order.Statuses(), order.Unknown) {
				to, err := tr.fn(from)

				if from == tr.from {
					require.NoError(t, err)
					assert.Equal(t, tr.to, to)
					continue
				}

				require.ErrorIs(t, err, errs.ErrValueIsInvalid, "from %s", from)
				assert.Equal(t, order.Status(0), to)
			}
		})
	}
}

func TestStatus_ValidateAssignWarehouse(t *testing.T) {
	allowed := map[order.Status]bool{
		order.Accepted:  true,
		order.Packaged:  true,
		order.Shipped:   true,
		order.InTransit: true,
	}

	for _, status := range order.Statuses() {
		err := status.ValidateAssignWarehouse()
		if allowed[status] {
			require.NoError(t, err, status.String())
		} else {
			require.Error(t, err, status.String())
		}
	}
}

func TestStatus_IsFinal(t *testing.T) {
	assert.True(t, order.Cancelled.IsFinal())
	assert.True(t, order.ReturnedToVendor.IsFinal())
	assert.False(t, order.Delivered.IsFinal())
	assert.False(t, order.Pending.IsFinal())
}

func TestStatus_ValidateShipments(t *testing.T) {
	st := func(s shipment.Status) *shipment.Status { return &s }

	tests := []struct {
		name     string
		status   order.Status
		returned bool
		forward  *shipment.Status
		ret      *shipment.Status
		valid    bool
	}{
		{"pending without shipment", order.Pending, false, nil, nil, true},
		{"accepted with pending shipment", order.Accepted, false, st(shipment.Pending), nil, true},
		{"packaged with shipped shipment", order.Packaged, false, st(shipment.Shipped), nil, false},
		{"cancelled with pending shipment", order.Cancelled, false, st(shipment.Pending), nil, true},
		{"shipped without shipment", order.Shipped, false, nil, nil, false},
		{"shipped with shipped shipment", order.Shipped, false, st(shipment.Shipped), nil, true},
		{"in transit forward", order.InTransit, false, st(shipment.Shipped), nil, true},
		{"out for delivery with delivered shipment", order.OutForDelivery, false, st(shipment.Delivered), nil, false},
		{"delivered", order.Delivered, false, st(shipment.Delivered), nil, true},
		{"delivered with return", order.Delivered, false, st(shipment.Delivered), st(shipment.ReturnInitiated), false},
		{"in transit returned, initiated", order.InTransit, true, st(shipment.Delivered), st(shipment.ReturnInitiated), true},
		{"in transit returned, returning", order.InTransit, true, st(shipment.Delivered), st(shipment.Returning), true},
		{"in transit returned, without return", order.InTransit, true, st(shipment.Delivered), nil, false},
		{"in transit returned, already back", order.InTransit, true, st(shipment.Delivered), st(shipment.ReturnedToVendor), false},
		{"returned to vendor", order.ReturnedToVendor, true, st(shipment.Delivered), st(shipment.ReturnedToVendor), true},
		{"returned to vendor, still returning", order.ReturnedToVendor, true, st(shipment.Delivered), st(shipment.Returning), false},
		{"unknown", order.Unknown, false, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.ValidateShipments(tt.returned, tt.forward, tt.ret)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "shipment status is inconsistent")
		})
	}
}
