// Package seed loads demo data on first start so the console is
// explorable without manual setup. Seeding is skipped when any
// property already exists.
package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	"github.com/roomledger/roomledger/internal/config"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	tenantdomain "github.com/roomledger/roomledger/internal/tenant/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

type seedProperty struct {
	key     int
	name    string
	address string
}

type seedTenant struct {
	key       int
	name      string
	phone     string
	birthDate string
	idCard    string
	hometown  string
	documents []string
}

type seedRoom struct {
	key         int
	propertyKey int
	name        string
	status      roomdomain.Status
	tenantKey   int // 0 means vacant
	price       int64
	areaM2      int
	deposit     int64
	equipment   []string
}

type seedContract struct {
	code                string
	roomKey             int
	tenantKey           int
	status              contractdomain.Status
	startDate           string
	endDate             string
	rent                int64
	deposit             int64
	electricityRate     int64
	waterRate           int64
	electricityBaseline float64
	waterBaseline       float64
	serviceFees         []contractdomain.ServiceFee
	dependents          []contractdomain.Dependent
	checklist           contractdomain.CheckinChecklist
	notes               string
	residenceStatus     string
}

type seedTicket struct {
	roomKey  int
	request  string
	status   maintenancedomain.Status
	priority maintenancedomain.Priority
	cost     *int64
}

var properties = []seedProperty{
	{key: 1, name: "Khu trọ An Phú", address: "123/45 Đường ABC, P. An Phú"},
	{key: 2, name: "Khu trọ Bình Hòa", address: "45/67 Đường XYZ, P. Bình Hòa"},
	{key: 3, name: "Khu trọ Lái Thiêu", address: "89/90 Đường KLM, P. Lái Thiêu"},
}

var tenants = []seedTenant{
	{key: 1, name: "Nguyễn Văn An", phone: "0901234567", birthDate: "1995-08-15", idCard: "038095000111", hometown: "Cà Mau", documents: []string{"cccd-an-1.jpg", "cccd-an-2.jpg"}},
	{key: 2, name: "Trần Thị Bích", phone: "0912345678", birthDate: "1998-04-20", idCard: "038098000222", hometown: "Bình Định", documents: []string{"cccd-bich-1.jpg"}},
	{key: 3, name: "Lê Minh Cường", phone: "0987654321", birthDate: "1992-11-30", idCard: "055092000333", hometown: "Hà Nội"},
	{key: 4, name: "Phạm Thị Diễm", phone: "0934567890", birthDate: "2000-01-25", idCard: "062100000444", hometown: "Đà Nẵng", documents: []string{"cccd-diem-1.jpg"}},
	{key: 5, name: "Võ Thành Trung", phone: "0945678901", birthDate: "1996-06-10", idCard: "079096000555", hometown: "TP.HCM"},
	{key: 6, name: "Đỗ Mỹ Linh", phone: "0956789012", birthDate: "1997-02-14", idCard: "082097000666", hometown: "Hải Phòng", documents: []string{"cccd-linh-1.jpg", "cccd-linh-2.jpg"}},
	{key: 7, name: "Hoàng Văn Hùng", phone: "0967890123", birthDate: "1993-09-05", idCard: "022093000777", hometown: "Nghệ An"},
	{key: 8, name: "Ngô Thị Kim", phone: "0978901234", birthDate: "1999-07-22", idCard: "045099000888", hometown: "Thanh Hóa", documents: []string{"cccd-kim-1.jpg"}},
	{key: 9, name: "Bùi Anh Tuấn", phone: "0989012345", birthDate: "1991-03-18", idCard: "011091000999", hometown: "Hà Tây"},
	{key: 10, name: "Đặng Thu Thảo", phone: "0990123456", birthDate: "1994-12-01", idCard: "092094001010", hometown: "Cần Thơ", documents: []string{"cccd-thao-1.jpg"}},
}

var rooms = []seedRoom{
	{key: 101, propertyKey: 1, name: "A101", status: roomdomain.StatusOccupied, tenantKey: 1, price: 3500000, areaM2: 25, deposit: 3500000, equipment: []string{"Điều hòa", "Tủ lạnh", "Giường", "Tủ quần áo"}},
	{key: 102, propertyKey: 1, name: "A102", status: roomdomain.StatusOccupied, tenantKey: 2, price: 3500000, areaM2: 25, deposit: 3500000, equipment: []string{"Điều hòa", "Bình nóng lạnh"}},
	{key: 103, propertyKey: 1, name: "A103", status: roomdomain.StatusVacant, price: 3500000, areaM2: 25, deposit: 3500000},
	{key: 104, propertyKey: 1, name: "A104", status: roomdomain.StatusRepair, price: 3800000, areaM2: 28, deposit: 3800000, equipment: []string{"Điều hòa", "Tủ lạnh"}},
	{key: 105, propertyKey: 1, name: "A105", status: roomdomain.StatusOccupied, tenantKey: 9, price: 3800000, areaM2: 28, deposit: 3800000, equipment: []string{"Điều hòa", "Tủ lạnh", "Giường", "Tủ quần áo"}},
	{key: 201, propertyKey: 2, name: "B201", status: roomdomain.StatusOccupied, tenantKey: 3, price: 4000000, areaM2: 30, deposit: 4000000, equipment: []string{"Điều hòa", "Tủ lạnh", "Giường"}},
	{key: 202, propertyKey: 2, name: "B202", status: roomdomain.StatusOccupied, tenantKey: 4, price: 4000000, areaM2: 30, deposit: 4000000, equipment: []string{"Điều hòa", "Tủ lạnh"}},
	{key: 203, propertyKey: 2, name: "B203", status: roomdomain.StatusOccupied, tenantKey: 5, price: 4200000, areaM2: 32, deposit: 4200000, equipment: []string{"Điều hòa", "Tủ lạnh", "Bình nóng lạnh"}},
	{key: 204, propertyKey: 2, name: "B204", status: roomdomain.StatusOccupied, tenantKey: 10, price: 4000000, areaM2: 30, deposit: 4000000, equipment: []string{"Điều hòa", "Tủ lạnh"}},
	{key: 301, propertyKey: 3, name: "C301", status: roomdomain.StatusOccupied, tenantKey: 6, price: 3200000, areaM2: 22, deposit: 3000000, equipment: []string{"Quạt trần"}},
	{key: 302, propertyKey: 3, name: "C302", status: roomdomain.StatusVacant, price: 3200000, areaM2: 22, deposit: 3000000},
	{key: 303, propertyKey: 3, name: "C303", status: roomdomain.StatusOccupied, tenantKey: 7, price: 3300000, areaM2: 23, deposit: 3300000, equipment: []string{"Điều hòa"}},
	{key: 304, propertyKey: 3, name: "C304", status: roomdomain.StatusOccupied, tenantKey: 8, price: 3300000, areaM2: 23, deposit: 3300000, equipment: []string{"Điều hòa"}},
}

var contracts = []seedContract{
	{
		code: "HD-AP-2025-01", roomKey: 101, tenantKey: 1, status: contractdomain.StatusActive,
		startDate: "2025-07-01", endDate: "2026-07-01", rent: 3500000, deposit: 3500000,
		electricityRate: 3500, waterRate: 18000, electricityBaseline: 235, waterBaseline: 68,
		serviceFees: []contractdomain.ServiceFee{{Label: "Phí vệ sinh chung", Amount: 50000}, {Label: "Wifi", Amount: 120000}},
		dependents:  []contractdomain.Dependent{{Name: "Lê Thị Mai", Relation: "Vợ", IDCard: "038095000112"}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true, Documents: true},
		notes:       "Khách đã ký phụ lục số 1 ngày 25/6.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-AP-2024-11", roomKey: 102, tenantKey: 2, status: contractdomain.StatusEnding,
		startDate: "2024-10-29", endDate: "2025-10-29", rent: 3500000, deposit: 3500000,
		electricityRate: 3600, waterRate: 19000, electricityBaseline: 410, waterBaseline: 92,
		serviceFees: []contractdomain.ServiceFee{{Label: "Phí rác", Amount: 50000}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true},
		notes:       "Chuẩn bị gia hạn trước 45 ngày.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-BH-2025-09", roomKey: 201, tenantKey: 3, status: contractdomain.StatusActive,
		startDate: "2025-09-15", endDate: "2026-09-15", rent: 4000000, deposit: 4000000,
		electricityRate: 3400, waterRate: 17000, electricityBaseline: 128, waterBaseline: 45,
		serviceFees: []contractdomain.ServiceFee{{Label: "Giữ xe", Amount: 150000}, {Label: "Wifi", Amount: 100000}},
		dependents:  []contractdomain.Dependent{{Name: "Phạm Văn Đông", Relation: "Bạn cùng phòng", IDCard: "055092000555"}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true},
		notes:       "Cần thu hồ sơ tạm trú trong tuần đầu tiên.", residenceStatus: "Chưa đăng ký",
	},
	{
		code: "HD-BH-2025-03", roomKey: 202, tenantKey: 4, status: contractdomain.StatusActive,
		startDate: "2025-03-28", endDate: "2026-03-28", rent: 4000000, deposit: 4000000,
		electricityRate: 3400, waterRate: 17000, electricityBaseline: 215, waterBaseline: 70,
		serviceFees: []contractdomain.ServiceFee{{Label: "Phí vệ sinh", Amount: 50000}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true, Documents: true},
		notes:       "Hợp đồng kèm điều khoản nuôi thú cưng.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-BH-2025-01", roomKey: 203, tenantKey: 5, status: contractdomain.StatusActive,
		startDate: "2025-01-10", endDate: "2026-01-10", rent: 4200000, deposit: 4200000,
		electricityRate: 3500, waterRate: 18500, electricityBaseline: 512, waterBaseline: 98,
		serviceFees: []contractdomain.ServiceFee{{Label: "Giữ xe", Amount: 200000}, {Label: "Vệ sinh", Amount: 60000}},
		dependents:  []contractdomain.Dependent{{Name: "Nguyễn Cao Kỳ", Relation: "Đồng cư", IDCard: "079096000556"}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true, Documents: true},
		notes:       "Khách yêu cầu nhắc trước 5 ngày khi thu tiền điện.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-LT-2025-08", roomKey: 301, tenantKey: 6, status: contractdomain.StatusDraft,
		startDate: "2025-08-15", endDate: "2026-08-15", rent: 3200000, deposit: 3000000,
		electricityRate: 3200, waterRate: 16000, electricityBaseline: 60, waterBaseline: 22,
		serviceFees: []contractdomain.ServiceFee{{Label: "Wifi", Amount: 100000}},
		notes:       "Chờ khách chuyển cọc và xác minh CCCD.", residenceStatus: "Chưa đăng ký",
	},
	{
		code: "HD-LT-2024-12", roomKey: 303, tenantKey: 7, status: contractdomain.StatusTerminated,
		startDate: "2024-11-20", endDate: "2025-06-30", rent: 3300000, deposit: 3300000,
		electricityRate: 3300, waterRate: 16500, electricityBaseline: 95, waterBaseline: 30,
		checklist: contractdomain.CheckinChecklist{Deposit: true, Meter: true, Documents: true},
		notes:     "Khách trả phòng sớm do chuyển công tác.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-LT-2025-05", roomKey: 304, tenantKey: 8, status: contractdomain.StatusActive,
		startDate: "2025-05-01", endDate: "2026-05-01", rent: 3300000, deposit: 3300000,
		electricityRate: 3300, waterRate: 16500, electricityBaseline: 180, waterBaseline: 55,
		serviceFees: []contractdomain.ServiceFee{{Label: "Giữ xe", Amount: 150000}},
		dependents:  []contractdomain.Dependent{{Name: "Trịnh Văn Sơn", Relation: "Bạn cùng phòng", IDCard: "045099000889"}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true, Documents: true},
		notes:       "Gia hạn đăng ký tạm trú vào tháng 5.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-AP-2025-04", roomKey: 105, tenantKey: 9, status: contractdomain.StatusActive,
		startDate: "2025-04-12", endDate: "2026-04-12", rent: 3800000, deposit: 3800000,
		electricityRate: 3500, waterRate: 18000, electricityBaseline: 305, waterBaseline: 80,
		serviceFees: []contractdomain.ServiceFee{{Label: "Phí vệ sinh", Amount: 60000}},
		checklist:   contractdomain.CheckinChecklist{Deposit: true, Meter: true},
		notes:       "Chờ khách bổ sung giấy xác nhận tạm trú online.", residenceStatus: "Đã đăng ký",
	},
	{
		code: "HD-BH-2025-02", roomKey: 204, tenantKey: 10, status: contractdomain.StatusDraft,
		startDate: "2025-02-22", endDate: "2026-02-22", rent: 4000000, deposit: 4000000,
		electricityRate: 3400, waterRate: 17000, electricityBaseline: 142, waterBaseline: 40,
		serviceFees: []contractdomain.ServiceFee{{Label: "Wifi", Amount: 120000}},
		notes:       "Chờ khách ký nháy từng trang và chuyển khoản đặt cọc.", residenceStatus: "Chưa đăng ký",
	},
}

var catalog = []catalogdomain.ServiceDefinition{
	{ID: catalogdomain.ServiceElectricity, Name: "Điện", UnitPrice: 3500, Method: catalogdomain.MethodMeter, Unit: "kWh", Locked: true},
	{ID: catalogdomain.ServiceWater, Name: "Nước", UnitPrice: 18000, Method: catalogdomain.MethodMeter, Unit: "m³", Locked: true},
	{ID: catalogdomain.ServiceWifi, Name: "Wifi", UnitPrice: 65000, Method: catalogdomain.MethodPerRoom},
	{ID: catalogdomain.ServiceTrash, Name: "Rác sinh hoạt", UnitPrice: 30000, Method: catalogdomain.MethodPerRoom},
	{ID: catalogdomain.ServiceSecurity, Name: "An ninh", UnitPrice: 50000, Method: catalogdomain.MethodPerPerson},
}

var tickets = []seedTicket{
	{roomKey: 104, request: "Cửa sổ bị kẹt", status: maintenancedomain.StatusNew, priority: maintenancedomain.PriorityMedium},
	{roomKey: 201, request: "Mạng wifi chập chờn", status: maintenancedomain.StatusNew, priority: maintenancedomain.PriorityUrgent},
	{roomKey: 102, request: "Lắp thêm quạt treo tường", status: maintenancedomain.StatusInProgress, priority: maintenancedomain.PriorityLow},
	{roomKey: 202, request: "Thay bóng đèn hành lang", status: maintenancedomain.StatusDone, priority: maintenancedomain.PriorityMedium, cost: money(75000)},
	{roomKey: 201, request: "Hỏng vòi nước lavabo", status: maintenancedomain.StatusDone, priority: maintenancedomain.PriorityMedium, cost: money(50000)},
	{roomKey: 101, request: "Thay bóng đèn nhà tắm", status: maintenancedomain.StatusDone, priority: maintenancedomain.PriorityLow, cost: money(50000)},
}

var usageMonths = []string{"2025-08", "2025-09"}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
}

func Run(p Params) error {
	if !p.Cfg.SeedDemoData {
		return nil
	}
	log := p.Log.Named("seed")

	var count int64
	if err := p.DB.Model(&propertydomain.Property{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ctx := context.Background()
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		propertyIDs := make(map[int]snowflake.ID, len(properties))
		for _, sp := range properties {
			id := p.GenID.Generate()
			propertyIDs[sp.key] = id
			if err := tx.Create(&propertydomain.Property{ID: id, Name: sp.name, Address: sp.address}).Error; err != nil {
				return err
			}
		}

		tenantIDs := make(map[int]snowflake.ID, len(tenants))
		for _, st := range tenants {
			id := p.GenID.Generate()
			tenantIDs[st.key] = id
			if err := tx.Create(&tenantdomain.Tenant{
				ID: id, Name: st.name, Phone: st.phone, BirthDate: st.birthDate,
				IDCard: st.idCard, Hometown: st.hometown, Documents: st.documents,
			}).Error; err != nil {
				return err
			}
		}

		roomIDs := make(map[int]snowflake.ID, len(rooms))
		for _, sr := range rooms {
			id := p.GenID.Generate()
			roomIDs[sr.key] = id
			var tenantID *snowflake.ID
			if sr.tenantKey != 0 {
				tid := tenantIDs[sr.tenantKey]
				tenantID = &tid
			}
			if err := tx.Create(&roomdomain.Room{
				ID: id, PropertyID: propertyIDs[sr.propertyKey], Name: sr.name,
				Status: sr.status, TenantID: tenantID, Price: sr.price,
				AreaM2: sr.areaM2, Deposit: sr.deposit, Equipment: sr.equipment,
			}).Error; err != nil {
				return err
			}
		}

		for i := range catalog {
			if err := tx.Create(&catalog[i]).Error; err != nil {
				return err
			}
		}

		for _, sc := range contracts {
			contract := contractdomain.Contract{
				ID: p.GenID.Generate(), Code: sc.code,
				RoomID: roomIDs[sc.roomKey], TenantID: tenantIDs[sc.tenantKey],
				Status: sc.status, StartDate: sc.startDate, EndDate: sc.endDate,
				BillingCycle: "monthly", Rent: sc.rent, Deposit: sc.deposit,
				ElectricityRate: sc.electricityRate, WaterRate: sc.waterRate,
				ElectricityBaseline: ptr(sc.electricityBaseline), WaterBaseline: ptr(sc.waterBaseline),
				ServiceFees: sc.serviceFees, Dependents: sc.dependents,
				CheckinChecklist: sc.checklist, Notes: sc.notes, ResidenceStatus: sc.residenceStatus,
			}
			if err := tx.Create(&contract).Error; err != nil {
				return err
			}
			if err := seedUsage(tx, p.GenID, contract); err != nil {
				return err
			}
		}

		for _, st := range tickets {
			if err := tx.Create(&maintenancedomain.Ticket{
				ID: p.GenID.Generate(), RoomID: roomIDs[st.roomKey],
				Request: st.request, Status: st.status, Priority: st.priority, Cost: st.cost,
			}).Error; err != nil {
				return err
			}
		}

		log.Info("demo data seeded",
			zap.Int("properties", len(properties)),
			zap.Int("rooms", len(rooms)),
			zap.Int("contracts", len(contracts)),
		)
		return nil
	})
}

// seedUsage writes two months of readings derived from the contract's
// meter baselines, matching the shape of a freshly managed console.
func seedUsage(tx *gorm.DB, genID *snowflake.Node, contract contractdomain.Contract) error {
	if contract.Status == contractdomain.StatusTerminated {
		return nil
	}
	hasWifi := contract.HasFeeLabel("wifi")
	hasTrash := contract.HasFeeLabel("rác")

	for index, month := range usageMonths {
		factor := float64(index + 1)
		record := usagedomain.Record{
			ID:            genID.Generate(),
			ContractID:    contract.ID,
			Month:         month,
			TrashIncluded: hasTrash,
		}
		if contract.ElectricityBaseline != nil && *contract.ElectricityBaseline != 0 {
			record.ElectricityCurrent = ptr(*contract.ElectricityBaseline + 18*factor)
		}
		if contract.WaterBaseline != nil && *contract.WaterBaseline != 0 {
			record.WaterCurrent = ptr(*contract.WaterBaseline + 6*factor)
		}
		if hasWifi {
			record.WifiDevices = 2 + index
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func ptr(v float64) *float64 { return &v }

func money(v int64) *int64 { return &v }
