package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// 闸机事件主题
const (
	TopicVisitorEvents = "securacore/gate/visitor"
	TopicQREvents      = "securacore/gate/qr-visitor"
	TopicPackageEvents = "securacore/gate/package"
)

// InterfaceGateNotifyService defines the gate notification service interface
type InterfaceGateNotifyService interface {
	Connect() error
	Disconnect()
	PublishVisitorEvent(event string, v *models.Visitor) error
	PublishQRVisitorEvent(event string, q *models.QRVisitor) error
	PublishPackageEvent(event string, p *models.PackageItem) error
}

// GateEvent 推送到门岗终端的事件载荷
type GateEvent struct {
	Event     string    `json:"event"`
	EntityID  uint      `json:"entity_id"`
	FlatNo    string    `json:"flat_no"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GateNotifyService 通过MQTT向门岗终端推送状态变更事件
type GateNotifyService struct {
	Client      mqtt.Client
	Config      *config.Config
	IsConnected bool

	publishMutex   sync.Mutex
	connectedMutex sync.RWMutex
}

// NewGateNotifyService 创建一个新的闸机通知服务
func NewGateNotifyService(cfg *config.Config) InterfaceGateNotifyService {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetKeepAlive(30 * time.Second)

	return &GateNotifyService{
		Client: mqtt.NewClient(opts),
		Config: cfg,
	}
}

// Connect 连接到MQTT服务器
func (s *GateNotifyService) Connect() error {
	log.Printf("[MQTT] 正在连接到 %s...", s.Config.MQTTBrokerURL)

	// 加锁，确保同一时间只有一个连接尝试
	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if isConnected {
		return nil
	}

	// 最大重试次数和指数退避策略
	maxRetries := 3
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.connectedMutex.Lock()
			s.IsConnected = true
			s.connectedMutex.Unlock()
			log.Printf("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s
		log.Printf("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// Disconnect 断开与MQTT服务器的连接
func (s *GateNotifyService) Disconnect() {
	s.connectedMutex.Lock()
	defer s.connectedMutex.Unlock()

	if s.IsConnected {
		s.Client.Disconnect(250)
		s.IsConnected = false
	}
}

// PublishVisitorEvent 推送访客请求状态变更
func (s *GateNotifyService) PublishVisitorEvent(event string, v *models.Visitor) error {
	return s.publish(TopicVisitorEvents, GateEvent{
		Event:     event,
		EntityID:  v.ID,
		FlatNo:    v.FlatNo,
		Status:    v.Status,
		Timestamp: time.Now(),
	})
}

// PublishQRVisitorEvent 推送二维码通行证状态变更
func (s *GateNotifyService) PublishQRVisitorEvent(event string, q *models.QRVisitor) error {
	return s.publish(TopicQREvents, GateEvent{
		Event:     event,
		EntityID:  q.ID,
		FlatNo:    q.FlatNo,
		Status:    q.Status,
		Timestamp: time.Now(),
	})
}

// PublishPackageEvent 推送快递状态变更
func (s *GateNotifyService) PublishPackageEvent(event string, p *models.PackageItem) error {
	return s.publish(TopicPackageEvents, GateEvent{
		Event:     event,
		EntityID:  p.ID,
		FlatNo:    p.FlatNo,
		Status:    p.Status,
		Timestamp: time.Now(),
	})
}

// publish 序列化并发布事件，未连接时静默丢弃（通知是尽力而为的）
func (s *GateNotifyService) publish(topic string, event GateEvent) error {
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if !isConnected {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	token := s.Client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(3 * time.Second) {
		return fmt.Errorf("[MQTT] 发布到 %s 超时", topic)
	}
	return token.Error()
}
