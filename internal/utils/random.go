package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomWorker 生成一个随机的普通员工，供种子数据使用
func GenerateRandomWorker(password string, emailDomainName string, organizationID *int64) (*domain.Worker, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	worker := &domain.Worker{
		Username:       username,
		PasswordHash:   string(passwordHash),
		FullName:       fullName,
		Email:          username + "@" + emailDomainName,
		Role:           domain.RoleWorker,
		OrganizationID: organizationID,
		IsActive:       true,
	}

	return worker, nil
}

var organizationNameParts = []string{"华南", "东湖", "西城", "北岭", "中环", "滨江", "星海", "云山"}
var workplaceNameParts = []string{"前台", "仓库", "客服中心", "运营部", "门店", "调度室"}

// GenerateRandomOrganization 生成一个随机组织，短代码带随机数字后缀避免唯一约束冲突
func GenerateRandomOrganization() *domain.Organization {
	name := organizationNameParts[rand.Intn(len(organizationNameParts))] + "分部" + fmt.Sprintf("%03d", rand.Intn(1000))
	return &domain.Organization{
		Name:      name,
		ShortCode: fmt.Sprintf("org%04d", rand.Intn(10000)),
	}
}

func GenerateRandomWorkplace(organizationID int64) *domain.Workplace {
	return &domain.Workplace{
		OrganizationID: organizationID,
		Code:           fmt.Sprintf("wp%05d", rand.Intn(100000)),
		Name:           workplaceNameParts[rand.Intn(len(workplaceNameParts))] + fmt.Sprintf("%d", rand.Intn(100)),
	}
}

// GenerateRandomPlan 生成一个从最近某天开始、持续一到四周的草稿排班活动
func GenerateRandomPlan(now time.Time) *domain.Plan {
	start := now.AddDate(0, 0, rand.Intn(14)-7).Truncate(24 * time.Hour)
	return &domain.Plan{
		Name:        fmt.Sprintf("排班活动 %s-%04d", start.Format("200601"), rand.Intn(10000)),
		Description: "种子数据",
		Status:      domain.PlanDraft,
		StartsAt:    start,
		EndsAt:      start.AddDate(0, 0, 7*(rand.Intn(4)+1)),
	}
}

// GenerateRandomSlot 在排班活动的时间范围内生成一条持续一到三天的排班记录
func GenerateRandomSlot(plan *domain.Plan, workerID int64, organizationID int64) *domain.Slot {
	planDays := int(plan.EndsAt.Sub(plan.StartsAt).Hours() / 24)
	if planDays < 1 {
		planDays = 1
	}
	offset := rand.Intn(planDays)
	duration := rand.Intn(3)

	dateStart := plan.StartsAt.AddDate(0, 0, offset)
	dateEnd := dateStart.AddDate(0, 0, duration)
	if dateEnd.After(plan.EndsAt) {
		dateEnd = plan.EndsAt
	}

	return &domain.Slot{
		PlanID:         plan.ID,
		WorkerID:       workerID,
		OrganizationID: organizationID,
		DateStart:      dateStart,
		DateEnd:        dateEnd,
		Status:         domain.SlotPlanned,
		Note:           "种子数据",
	}
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
