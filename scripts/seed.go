// 初始化演示数据脚本
//
// 创建一个教师账号、一个学生账号、一个示例课程单元
// （页面块 + 视频块 + 练习题块）以及挂在该单元上的助教实例，
// 方便本地联调前端组件。
//
// 用法: go run scripts/seed.go

package main

import (
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/pkg/database"
	"course_assistant_backend/pkg/logger"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	cfg.ForceMigrate = true
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	password, _ := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)

	teacher := &model.User{
		Name:     "演示教师",
		Email:    "teacher@example.com",
		Password: string(password),
		Role:     model.Teacher,
	}
	student := &model.User{
		Name:     "演示学生",
		Email:    "student@example.com",
		Password: string(password),
		Role:     model.Student,
	}
	for _, u := range []*model.User{teacher, student} {
		if err := db.Where("email = ?", u.Email).FirstOrCreate(u).Error; err != nil {
			log.Fatalf("创建用户失败: %v", err)
		}
	}

	const unitID = "demo-unit-1"

	blocks := []*model.ContentBlock{
		{
			UnitID:    unitID,
			Position:  1,
			Kind:      model.BlockHTML,
			Title:     "指针入门",
			Data:      "<h1>指针入门</h1><p>指针保存的是另一个变量的内存地址，通过取地址符可以获得变量的地址。</p>",
			CreatedBy: teacher.ID,
		},
		{
			UnitID:   unitID,
			Position: 2,
			Kind:     model.BlockVideo,
			Title:    "指针操作演示",
			Transcript: "1\n00:00:01,000 --> 00:00:04,000\n这节课我们演示指针的基本操作。\n\n" +
				"2\n00:00:04,500 --> 00:00:08,000\n首先声明一个整型变量并打印它的地址。\n",
			CreatedBy: teacher.ID,
		},
		{
			UnitID:    unitID,
			Position:  3,
			Kind:      model.BlockProblem,
			Title:     "课后练习",
			Data:      "<problem><p>写出交换两个整数的函数，要求使用指针作为参数。</p></problem>",
			CreatedBy: teacher.ID,
		},
	}
	for _, b := range blocks {
		if err := db.Where("unit_id = ? AND position = ?", b.UnitID, b.Position).FirstOrCreate(b).Error; err != nil {
			log.Fatalf("创建内容块失败: %v", err)
		}
	}

	instance := &model.AssistantInstance{
		UnitID:             unitID,
		DisplayName:        "AI 课程助教",
		Description:        "演示单元的课程助教",
		ModelName:          cfg.AI.Model,
		SystemPrompt:       cfg.Assistant.SystemPrompt,
		Temperature:        cfg.Assistant.Temperature,
		MaxTokens:          cfg.Assistant.MaxTokens,
		MaxTurns:           cfg.Assistant.MaxTurns,
		MaxContentChars:    cfg.Assistant.MaxContentChars,
		EnableReflection:   true,
		EnableMultiTurn:    true,
		IncludePageContent: true,
		IncludeTranscripts: true,
		EnableModeration:   true,
		CreatedBy:          teacher.ID,
	}
	if err := db.Where("unit_id = ?", unitID).FirstOrCreate(instance).Error; err != nil {
		log.Fatalf("创建助教实例失败: %v", err)
	}

	log.Printf("演示数据就绪，助教实例 ID: %s", instance.ID)
}
