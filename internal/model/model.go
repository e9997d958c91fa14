// Package model contains the domain entities of the ordering agent.
package model

// Role is the account type returned by the backend. The admin role exists
// server-side only and is never issued to this agent.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleKurir    Role = "kurir"
)

// PaymentMethod is the wire value of the payment selection.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentQRIS PaymentMethod = "qris"
)

// Valid reports whether the method is one the backend accepts.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQRIS
}

// Product kinds as the catalog endpoint reports them.
const (
	KindElpiji = "elpiji"
	KindGalon  = "galon"
)

// OrderStatus is the server-driven lifecycle state of an order.
type OrderStatus string

const (
	StatusMenunggu   OrderStatus = "menunggu"
	StatusDiproses   OrderStatus = "diproses"
	StatusDikirim    OrderStatus = "dikirim"
	StatusSelesai    OrderStatus = "selesai"
	StatusDibatalkan OrderStatus = "dibatalkan"
)

// Product is one catalog entry. Prices are integer rupiah.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"nama_produk"`
	Kind  string `json:"jenis"`
	Price int64  `json:"harga"`
	Stock int    `json:"stok"`
}

// CartLine is one product entry in the shopping cart. Stock is a snapshot
// taken when the line was created and bounds the quantity from above.
type CartLine struct {
	ProductID int64  `json:"id"`
	Name      string `json:"nama_produk"`
	Kind      string `json:"jenis"`
	UnitPrice int64  `json:"harga"`
	Stock     int    `json:"stok"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// OrderItemRequest is the minimal item shape the order-create endpoint expects.
type OrderItemRequest struct {
	ProductID int64 `json:"id_produk"`
	Quantity  int   `json:"jumlah"`
}

// OrderItem is an immutable item snapshot inside a confirmed order. Prices
// are fixed at creation time and do not follow later catalog changes.
type OrderItem struct {
	ProductID int64  `json:"id_produk"`
	Name      string `json:"nama_produk"`
	UnitPrice int64  `json:"harga"`
	Quantity  int    `json:"jumlah"`
	Subtotal  int64  `json:"subtotal"`
}

// Order is a server-confirmed purchase record. The client never mutates it,
// only replaces it with a re-fetched copy.
type Order struct {
	ID          int64         `json:"id"`
	Status      OrderStatus   `json:"status"`
	Items       []OrderItem   `json:"items,omitempty"`
	Method      PaymentMethod `json:"metode_bayar"`
	ProofRef    string        `json:"bukti_pembayaran,omitempty"`
	Subtotal    int64         `json:"subtotal"`
	ShippingFee int64         `json:"ongkir"`
	Total       int64         `json:"total_harga"`
	ItemCount   int           `json:"jumlah_item,omitempty"`
	KurirID     *int64        `json:"id_kurir,omitempty"`
	KurirName   string        `json:"nama_kurir,omitempty"`
	KurirPhone  string        `json:"telepon_kurir,omitempty"`
	// OrderedAt is passed through as the backend formats it.
	OrderedAt string `json:"tanggal_pesan,omitempty"`

	CustomerName    string `json:"nama_customer,omitempty"`
	CustomerPhone   string `json:"telepon_customer,omitempty"`
	CustomerAddress string `json:"alamat_customer,omitempty"`
}

// User is the profile stored alongside the token.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     Role   `json:"role"`
}

// HasDeliveryProfile reports whether the fields checkout requires are filled.
func (u User) HasDeliveryProfile() bool {
	return u.Name != "" && u.Phone != "" && u.Address != ""
}

// Session is the authenticated identity persisted between runs.
type Session struct {
	Token string
	User  User
}

// OrderStats is the aggregate block the history and courier endpoints return.
type OrderStats struct {
	Total    int `json:"total_pesanan"`
	Selesai  int `json:"selesai"`
	Batal    int `json:"dibatalkan"`
	Berjalan int `json:"berjalan"`
}
